package spoiler

// Version is the release version. Builds override it with
// -ldflags "-X github.com/kadavr95/spoiler.Version=...".
var Version = "0.1.0"
