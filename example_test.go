package spoiler_test

import (
	"fmt"

	"github.com/kadavr95/spoiler"
)

func Example() {
	ed, err := spoiler.NewEditor()
	if err != nil {
		panic(err)
	}
	defer ed.Destroy()

	if _, err := ed.SetData("<p>Intro</p>"); err != nil {
		panic(err)
	}
	if _, err := ed.Execute(spoiler.CommandName); err != nil {
		panic(err)
	}

	out, err := ed.GetData()
	if err != nil {
		panic(err)
	}
	fmt.Println(out)
	// Output:
	// <details class="spoiler"><summary class="spoiler-title"></summary><div class="spoiler-description"><p></p></div></details><p>Intro</p>
}

func Example_enablement() {
	ed, err := spoiler.NewEditor()
	if err != nil {
		panic(err)
	}
	defer ed.Destroy()

	_, _ = ed.SetData(`<details class="spoiler"><summary class="spoiler-title">Plot</summary><div class="spoiler-description"><p>Twist</p></div></details>`)

	for _, path := range [][]int{{0}, {0, 0, 2}, {0, 1, 0, 1}} {
		if err := ed.SetSelection(path...); err != nil {
			panic(err)
		}
		fmt.Println(path, ed.Commands().States()[spoiler.CommandName])
	}
	// Output:
	// [0] true
	// [0 0 2] false
	// [0 1 0 1] false
}
