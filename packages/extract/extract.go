// Package extract pulls the title, transcript and links out of a transcript
// page's content container.
package extract

import (
	"strings"

	"scriptscraper/packages/config"
	"scriptscraper/packages/dom"
	"scriptscraper/packages/domain"

	"github.com/abadojack/whatlanggo"
)

// Selectors name the markup that holds a transcript page's parts.
type Selectors struct {
	ContainerTag    string
	ContainerClass  string
	TitleTag        string
	TranscriptTag   string
	TranscriptClass string
}

func DefaultSelectors() Selectors {
	return Selectors{
		ContainerTag:    "article",
		ContainerClass:  "main-article",
		TitleTag:        "h1",
		TranscriptTag:   "div",
		TranscriptClass: "full-script",
	}
}

func SelectorsFromConfig(cfg config.Config) Selectors {
	return Selectors{
		ContainerTag:    cfg.ContainerTag,
		ContainerClass:  cfg.ContainerClass,
		TitleTag:        cfg.TitleTag,
		TranscriptTag:   cfg.TranscriptTag,
		TranscriptClass: cfg.TranscriptClass,
	}
}

func filters(class string) []dom.Filter {
	if class == "" {
		return nil
	}
	return []dom.Filter{dom.Class(class)}
}

func describe(tag, class string) string {
	if class == "" {
		return tag
	}
	return tag + "." + class
}

func notFound(op, what string) error {
	return domain.NewFault(domain.ParseFault, op, what, domain.ErrNotFound)
}

// Container locates the single content block of the page.
func Container(doc *dom.Document, sel Selectors) (dom.Element, error) {
	box, ok := doc.FindFirst(sel.ContainerTag, filters(sel.ContainerClass)...)
	if !ok {
		return dom.Element{}, notFound("find container", describe(sel.ContainerTag, sel.ContainerClass))
	}
	return box, nil
}

// Title returns the text of the first heading in box, untrimmed.
func Title(box dom.Element, sel Selectors) (string, error) {
	h, ok := box.FindFirst(sel.TitleTag)
	if !ok {
		return "", notFound("find title", sel.TitleTag)
	}
	return h.Text(), nil
}

// TranscriptText joins the stripped text nodes of the transcript element with single spaces.
func TranscriptText(box dom.Element, sel Selectors) (string, error) {
	el, ok := box.FindFirst(sel.TranscriptTag, filters(sel.TranscriptClass)...)
	if !ok {
		return "", notFound("find transcript", describe(sel.TranscriptTag, sel.TranscriptClass))
	}
	return el.StrippedText(" "), nil
}

// Links returns the href of every anchor in box that has one, in document
// order. Duplicates and odd values are kept.
func Links(box dom.Element) domain.LinkList {
	anchors := box.FindAll("a", dom.HasAttr("href"))
	links := make(domain.LinkList, 0, len(anchors))
	for _, a := range anchors {
		href, _ := a.Attr("href")
		links = append(links, href)
	}
	return links
}

// Language returns the ISO 639-3 code detected for text, or "" for blank text.
func Language(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	return whatlanggo.Detect(text).Lang.Iso6393()
}

// Transcript extracts title and transcript from box.
func Transcript(box dom.Element, sel Selectors) (domain.Transcript, error) {
	title, err := Title(box, sel)
	if err != nil {
		return domain.Transcript{}, err
	}
	text, err := TranscriptText(box, sel)
	if err != nil {
		return domain.Transcript{}, err
	}
	return domain.Transcript{Title: title, Text: text, Language: Language(text)}, nil
}
