package provider

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var nonDigit = regexp.MustCompile(`[^0-9]`)

// parseCount extracts a count from display text such as "12,345 명".
// Every non-digit is dropped; text with no digits is an error.
func parseCount(text string) (int, error) {
	digits := nonDigit.ReplaceAllString(text, "")
	if digits == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCount, text)
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidCount, text, err)
	}
	return n, nil
}

// requireFirst returns the first match of selector under sel.
func requireFirst(sel *goquery.Selection, selector string) (*goquery.Selection, error) {
	found := sel.Find(selector).First()
	if found.Length() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrElementNotFound, selector)
	}
	return found, nil
}

// labelAndCount reads a label element and a count element under sel.
func labelAndCount(sel *goquery.Selection, labelSelector, countSelector string) (string, int, error) {
	labelSel, err := requireFirst(sel, labelSelector)
	if err != nil {
		return "", 0, err
	}
	countSel, err := requireFirst(sel, countSelector)
	if err != nil {
		return "", 0, err
	}
	count, err := parseCount(nodeText(countSel))
	if err != nil {
		return "", 0, err
	}
	return strings.TrimSpace(nodeText(labelSel)), count, nil
}

// nodeText concatenates the text nodes under every node of sel,
// keeping the original line breaks.
func nodeText(sel *goquery.Selection) string {
	var buf bytes.Buffer
	for _, n := range sel.Nodes {
		writeText(n, &buf)
	}
	return buf.String()
}

func writeText(n *html.Node, buf *bytes.Buffer) {
	if n == nil {
		return
	}
	if n.Type == html.TextNode {
		buf.WriteString(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(c, buf)
	}
}

// textLines removes spaces from text, splits it on line breaks and drops
// empty lines.
func textLines(text string) []string {
	text = strings.ReplaceAll(text, " ", "")
	lines := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// eachSelection calls fn for every node of sel and stops at the first error.
func eachSelection(sel *goquery.Selection, fn func(*goquery.Selection) error) error {
	var err error
	sel.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		err = fn(s)
		return err == nil
	})
	return err
}
