/*
Package spoiler adds a collapsible "title and description" block to the editor.

A spoiler is stored as

	<details class="spoiler">
		<summary class="spoiler-title">Title</summary>
		<div class="spoiler-description"><p>Hidden content</p></div>
	</details>

and lives in the model as a spoiler element holding exactly one spoilerTitle and one
spoilerDescription, the latter never empty. Spoilers cannot be nested inside a
description at any depth. In the editing view the spoiler is a widget while the title
and the description are editable regions.

# Usage

	ed, err := spoiler.NewEditor()
	if err != nil {
		log.Fatal(err)
	}

	if _, err := ed.SetData("<p>Intro</p>"); err != nil {
		log.Fatal(err)
	}

	// The command is enabled when the caret is where a spoiler may go.
	if _, err := ed.Execute(spoiler.CommandName); err != nil {
		log.Fatal(err)
	}

	html, _ := ed.GetData()
	fmt.Println(html)
*/
package spoiler
