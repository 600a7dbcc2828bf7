package htmlutil

import (
	"bytes"
	"context"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"
)

var tracer = otel.Tracer("tidytuesday.lib.htmlutil")

var skippedElements = map[string]bool{
	"head":   true,
	"style":  true,
	"script": true,
}

var blockElements = map[string]bool{
	"h1":  true,
	"h2":  true,
	"h3":  true,
	"h4":  true,
	"p":   true,
	"div": true,
	"pre": true,
	"li":  true,
}

var blankRuns = regexp.MustCompile(`\n{3,}`)

// DocumentText flattens an html document into plain text for terminal
// display. <br> and block element boundaries become newlines, head
// content is dropped, runs of blank lines collapse to one.
func DocumentText(document string) (string, error) {
	root, err := html.Parse(strings.NewReader(document))
	if err != nil {
		return "", err
	}

	var buffer bytes.Buffer
	documentTextRecursive(root, &buffer)

	lines := strings.Split(buffer.String(), "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	text := strings.Join(lines, "\n")
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text), nil
}

func documentTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	if node.Type == html.ElementNode {
		if skippedElements[node.Data] {
			return
		}
		if node.Data == "br" {
			buffer.WriteString("\n")
			return
		}
	}
	child := node.FirstChild
	for child != nil {
		documentTextRecursive(child, buffer)
		child = child.NextSibling
	}
	if node.Type == html.ElementNode && blockElements[node.Data] {
		buffer.WriteString("\n")
	}
}

type Anchor struct {
	Name string
	Href string
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// GetAnchors lists the hyperlinks of an html document with their
// display text cleaned up for tabular output.
func GetAnchors(ctx context.Context, document string) ([]Anchor, error) {
	ctx, span := tracer.Start(ctx, "GetAnchors")
	defer span.End()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse document")
		return nil, err
	}

	anchors := []Anchor{}
	doc.Find("a").Each(func(_ int, sel *goquery.Selection) {
		link, err := url.Parse(sel.AttrOr("href", ""))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "got error while parsing url")
			return
		}

		name := removeNonPrintable(sel.Text())
		name = strings.TrimSpace(name)
		name = innerWhitespace.ReplaceAllString(name, " ")

		linkStr := link.String()
		anchors = append(anchors, Anchor{
			Name: name,
			Href: linkStr,
		})
		span.AddEvent("anchor", trace.WithAttributes(
			attribute.String("name", name),
			attribute.String("url", linkStr),
		))
	})

	return anchors, nil
}
