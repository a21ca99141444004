// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package translate renders user facing text (errors, CPU dumps) through a
// golang.org/x/text message printer matched to the host locale.
package translate

import (
	"sync"

	"github.com/jeandeaual/go-locale"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	mutex   sync.Mutex
	printer *message.Printer
)

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		logrus.WithField("component", "translate").Warnf("locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{"en-US"}
	}

	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

// SetLanguage forces the message printer to a specific language tag.
// Primarily used by tests that compare rendered text.
func SetLanguage(tag language.Tag) {
	mutex.Lock()
	defer mutex.Unlock()

	printer = message.NewPrinter(tag)
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	mutex.Lock()
	p := printer
	mutex.Unlock()

	return p.Sprintf(key, args...)
}
