package messaging

import (
	"errors"

	"pickle/models"

	"github.com/tidwall/gjson"
)

// DecodePageMeta picks the metadata fields out of a content script reply.
// The extension side is loosely typed, so fields are extracted by path
// rather than strict unmarshalling; unknown extras are ignored.
func DecodePageMeta(raw []byte) (models.PageMeta, error) {
	if !gjson.ValidBytes(raw) {
		return models.PageMeta{}, errors.New("metadata reply is not valid JSON")
	}
	result := gjson.ParseBytes(raw)
	meta := models.PageMeta{
		Title:       result.Get("title").String(),
		URL:         result.Get("url").String(),
		Description: result.Get("description").String(),
		Image:       result.Get("image").String(),
		SiteName:    result.Get("site_name").String(),
		Favicon:     result.Get("favicon").String(),
	}
	if meta.Title == "" && meta.URL == "" {
		return models.PageMeta{}, errors.New("metadata reply carries neither title nor url")
	}
	return meta, nil
}
