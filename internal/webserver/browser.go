package webserver

import (
	"io"

	"github.com/pkg/browser"
)

//go:generate go tool mockgen -source=browser.go -destination=mock_browser_test.go -package=webserver

// BrowserOpener opens a URL for the user.
type BrowserOpener interface {
	Open(url string) error
}

type systemBrowser struct{}

func (systemBrowser) Open(url string) error {
	// xdg-open and friends chatter on stdout, which belongs to the CLI.
	browser.Stdout = io.Discard
	return browser.OpenURL(url)
}
