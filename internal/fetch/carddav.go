package fetch

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/beevik/etree"
	"github.com/tartampluch/birthday-feed/internal/config"
)

// fetchReport issues a CardDAV addressbook-query REPORT and concatenates
// every address-data fragment of the multi-status response into one payload.
func (f *HTTPFetcher) fetchReport(ctx context.Context, src Source) (string, error) {
	slog.Debug(config.MsgReportStart,
		config.LogKeyComponent, config.CompFetcher,
	)

	body, err := f.do(ctx, config.MethodReport, src, strings.NewReader(config.AddressbookQueryBody), func(req *http.Request) {
		req.Header.Set(config.HeaderContentType, config.MimeXML)
		req.Header.Set(config.HeaderDepth, config.DepthMembers)
	})
	if err != nil {
		return "", err
	}

	payload, err := extractAddressData(body)
	if err != nil {
		return "", &SourceError{Op: "report", Err: err}
	}
	return payload, nil
}

// extractAddressData pulls every address-data fragment out of a multi-status
// document, preserving document order. Namespace prefixes vary between
// servers, so matching is done on local tag names only.
func extractAddressData(body []byte) (string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return "", errors.Join(errors.New(config.ErrMultistatus), err)
	}

	root := doc.Root()
	if root == nil || root.Tag != config.TagMultistatus {
		return "", errors.New(config.ErrMultistatus)
	}

	var fragments []string
	collectAddressData(root, &fragments)
	if len(fragments) == 0 {
		return "", errors.New(config.ErrNoFragments)
	}

	slog.Debug(config.MsgFetchBody,
		config.LogKeyComponent, config.CompFetcher,
		config.LogKeyFragments, len(fragments),
	)
	return strings.Join(fragments, config.FragmentSeparator), nil
}

func collectAddressData(el *etree.Element, out *[]string) {
	for _, child := range el.ChildElements() {
		if child.Tag == config.TagAddressData {
			if text := strings.TrimSpace(child.Text()); text != "" {
				*out = append(*out, text)
			}
			continue
		}
		collectAddressData(child, out)
	}
}
