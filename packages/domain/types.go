// Package domain
package domain

import "github.com/PuerkitoBio/goquery"

type Stage string

const (
	StartStage Stage = "start"
	LinkStage  Stage = "link"
)

// Page is one fetched document. It lives only as long as the step that fetched it.
type Page struct {
	RequestURL  string
	FinalURL    string
	StatusCode  int
	ContentType string
	Body        []byte
}

// ParsedPage is a Page with its parsed document.
type ParsedPage struct {
	Page
	Doc   *goquery.Document
	IsCSR bool
}

type Transcript struct {
	Title    string
	Text     string
	Language string // ISO 639-3, empty when undetected
}

// LinkList keeps hrefs in document order; duplicates and malformed values are kept as-is.
type LinkList []string

// RunResult summarizes one scrape. When a run stops on a fault it still holds
// everything completed before the fault, e.g. the written file and the links
// visited so far.
type RunResult struct {
	StartURL     string
	Transcript   Transcript
	OutputPath   string
	BytesWritten int
	Links        LinkList
	LinksVisited int
}
