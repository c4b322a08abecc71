// Package wordml provides an in-memory object model for OOXML
// WordprocessingML (.docx) packages, built around two engines: character
// offset based text editing and whole-document merging.
//
// Basic Usage:
//
//	doc, err := wordml.OpenFile("letter.docx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer doc.Close()
//
//	paras, _ := doc.Paragraphs()
//	err = paras[0].InsertText(5, ",", wordml.InsertOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := doc.SaveFile("letter-edited.docx"); err != nil {
//	    log.Fatal(err)
//	}
//
// Text is addressed by flat character offsets within a paragraph: text
// runs contribute their character data, tabs and line breaks contribute one
// character each, and everything else contributes nothing. Edits split runs
// at the requested offsets, so formatting boundaries are preserved exactly.
// Every edit can be recorded as a tracked change.
//
// Merging splices one document's content into another while renumbering
// every package-scoped identifier that would otherwise collide: style IDs,
// numbering definitions, footnote and endnote IDs, relationship IDs and
// drawing-object IDs. Identical image binaries are stored once.
//
// Documents are not safe for concurrent use; all operations run on the
// calling goroutine.
package wordml
