// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package i18n

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/Xuanwo/go-locale"
	"github.com/vorlif/spreak"
	"golang.org/x/text/language"
)

//go:embed locale/*
var locales embed.FS

// Tag resolves the language tag for loc. An empty loc is detected from the
// environment and falls back to English.
func Tag(loc string) language.Tag {
	if loc != "" {
		tag, err := language.Parse(loc)
		if err == nil {
			return tag
		}
	}
	tag, err := locale.Detect()
	if err != nil {
		return language.English // Unable to detect locale, fallback to English
	}
	return tag
}

func New(loc string) (*spreak.Localizer, error) {
	tag := Tag(loc)

	localeFS, err := fs.Sub(locales, "locale")
	if err != nil {
		return nil, fmt.Errorf("failed to load locales: %w", err)
	}

	bundle, err := spreak.NewBundle(
		spreak.WithSourceLanguage(language.English),
		spreak.WithFallbackLanguage(language.English),
		spreak.WithDomainFs("", localeFS),
		spreak.WithLanguage(tag),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create i18n bundle: %w", err)
	}
	return spreak.NewLocalizer(bundle, tag), nil
}
