package main

import (
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"time"

	"github.com/aquilax/tripcode"
	"github.com/gosimple/slug"
	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
)

func hfTime(t time.Time) string {
	return t.Format("01.02.2006 15:04")
}

func hfAnchor(name string) string {
	return "guest-" + slug.Make(name)
}

func getTripCode(s string) string {
	return tripcode.Tripcode(s)
}

// renderText converts guest markdown to sanitized HTML.
func renderText(t string) string {
	extensions := blackfriday.CommonExtensions |
		blackfriday.HardLineBreak |
		blackfriday.NoIntraEmphasis |
		blackfriday.Autolink |
		blackfriday.Strikethrough

	unsafe := blackfriday.Run([]byte(t), blackfriday.WithExtensions(extensions))
	return string(bluemonday.UGCPolicy().SanitizeBytes(unsafe))
}

// snapshot is the base64 form-state fingerprint used to detect no-op
// edits.
func snapshot(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func hfGravatar(tripcode string) string {
	if tripcode == "" {
		return "https://www.gravatar.com/avatar/00000000000000000000000000000000?d=retro"
	}
	hash := md5.Sum([]byte(tripcode))
	return "https://www.gravatar.com/avatar/" + hex.EncodeToString(hash[:]) + "?d=retro"
}
