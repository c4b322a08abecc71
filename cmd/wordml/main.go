package main

import (
	"fmt"
	"os"

	"github.com/benjaminschreck/go-wordml/pkg/wordml"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "version":
		fmt.Printf("go-wordml version %s\n", version)
	case "text":
		err = runText(os.Args[2:])
	case "replace":
		err = runReplace(os.Args[2:])
	case "merge":
		err = runMerge(os.Args[2:])
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("go-wordml - DOCX text editing and merging")
	fmt.Println("\nUsage: wordml <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  text <doc>                          Print the document text")
	fmt.Println("  replace <doc> <pattern> <new> <out> Replace text and save")
	fmt.Println("  merge <dest> <src> <out>            Merge src into dest and save")
	fmt.Println("  version                             Show version information")
}

func runText(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: text <doc>")
	}
	doc, err := wordml.OpenFile(args[0])
	if err != nil {
		return err
	}
	defer doc.Close()
	text, err := doc.Text()
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}

func runReplace(args []string) error {
	if len(args) != 4 {
		return fmt.Errorf("usage: replace <doc> <pattern> <new> <out>")
	}
	doc, err := wordml.OpenFile(args[0])
	if err != nil {
		return err
	}
	defer doc.Close()
	n, err := doc.ReplaceText(args[1], args[2], wordml.ReplaceOptions{Literal: true})
	if err != nil {
		return err
	}
	fmt.Printf("replaced %d occurrence(s)\n", n)
	return doc.SaveFile(args[3])
}

func runMerge(args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: merge <dest> <src> <out>")
	}
	dest, err := wordml.OpenFile(args[0])
	if err != nil {
		return err
	}
	defer dest.Close()
	src, err := wordml.OpenFile(args[1])
	if err != nil {
		return err
	}
	defer src.Close()
	if err := dest.MergeDocument(src, wordml.MergeOptions{Mode: wordml.ModeBoth}); err != nil {
		return err
	}
	return dest.SaveFile(args[2])
}
