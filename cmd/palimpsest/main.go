package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jobast/palimpsest"
)

func main() {
	var (
		inputFile  string
		outputFile string
		tmpl       string
		typography string
		title      string
		author     string
		thumbnails bool
		verbose    bool
	)

	flag.StringVar(&inputFile, "input", "", "Input HTML manuscript path")
	flag.StringVar(&outputFile, "output", "", "Output PDF path (default: input with .pdf extension)")
	flag.StringVar(&tmpl, "template", "manuscript", "Page template: manuscript, a4, book-a5, letter, digital")
	flag.StringVar(&typography, "typography", "", `Typography overrides, e.g. "font-size: 14pt; line-height: 1.8"`)
	flag.StringVar(&title, "title", "", "Document title")
	flag.StringVar(&author, "author", "", "Document author")
	flag.BoolVar(&thumbnails, "thumbnails", false, "Write per-page thumbnail PNGs next to the output")
	flag.BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	flag.Parse()

	if inputFile == "" {
		fmt.Println("Error: input file is required")
		flag.Usage()
		os.Exit(1)
	}
	if outputFile == "" {
		ext := filepath.Ext(inputFile)
		outputFile = inputFile[:len(inputFile)-len(ext)] + ".pdf"
	}

	content, err := os.ReadFile(inputFile)
	if err != nil {
		fmt.Printf("Error reading manuscript: %v\n", err)
		os.Exit(1)
	}

	doc, err := palimpsest.ParseHTMLString(string(content))
	if err != nil {
		fmt.Printf("Error parsing manuscript: %v\n", err)
		os.Exit(1)
	}

	opts := []palimpsest.Option{
		palimpsest.WithTemplate(tmpl),
		palimpsest.WithTypographyOverrides(typography),
		palimpsest.WithMetadata(title, author),
	}
	if verbose {
		opts = append(opts, palimpsest.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))))
	}

	p, err := palimpsest.New(doc, opts...)
	if err != nil {
		fmt.Printf("Error creating paginator: %v\n", err)
		os.Exit(1)
	}
	defer p.Close()

	snap := p.State()
	fmt.Printf("%s: %d pages (%s template)\n", filepath.Base(inputFile), snap.TotalPages, tmpl)
	if verbose {
		for _, page := range snap.Pages {
			fmt.Printf("  page %3d  offsets %6d..%-6d  content %.0fpx\n",
				page.Number, page.StartPos, page.EndPos, page.ContentHeight)
		}
	}

	out, err := os.Create(outputFile)
	if err != nil {
		fmt.Printf("Error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := p.ExportPDF(out); err != nil {
		fmt.Printf("Error exporting PDF: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", outputFile)

	if thumbnails {
		if err := writeThumbnails(p, outputFile); err != nil {
			fmt.Printf("Error writing thumbnails: %v\n", err)
			os.Exit(1)
		}
	}
}

func writeThumbnails(p *palimpsest.Paginator, outputFile string) error {
	base := outputFile[:len(outputFile)-len(filepath.Ext(outputFile))]
	for i, img := range p.Thumbnails(0.15) {
		path := fmt.Sprintf("%s-page-%03d.png", base, i+1)
		if err := writePNG(path, img); err != nil {
			return err
		}
	}
	return nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
