package fetch

import (
	exif "github.com/dsoprea/go-exif/v3"

	"github.com/watari-dev/linkmirror/internal/model"
)

// InspectAvatar checks downloaded avatar bytes for EXIF metadata that
// would leak information once the rendered site is published. Linktree's
// CDN strips EXIF on upload, but self-hosted mirrors are sometimes built
// from locally substituted images, so the check is cheap and worth it.
//
// Inspection is advisory: failures to parse mean "nothing found", never
// a build error. Returned warnings all have kind model.WarnPrivacy.
func InspectAvatar(data []byte, location string) []model.Warning {
	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil || rawExif == nil {
		return nil
	}

	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return nil
	}

	var warnings []model.Warning
	for _, entry := range entries {
		var message string

		switch entry.TagName {
		case "GPSLatitude", "GPSLongitude", "GPSLatitudeRef", "GPSLongitudeRef":
			message = "avatar EXIF contains GPS coordinates (" + entry.TagName + ")"
		case "SerialNumber", "CameraSerialNumber", "BodySerialNumber", "LensSerialNumber":
			message = "avatar EXIF contains a device serial number (" + entry.TagName + ")"
		case "Artist", "Author", "Copyright", "XPAuthor":
			message = "avatar EXIF contains author information (" + entry.TagName + ")"
		case "Make", "Model":
			message = "avatar EXIF identifies the camera (" + entry.TagName + ": " + entry.Formatted + ")"
		default:
			continue
		}

		warnings = append(warnings, model.Warning{
			Kind:     model.WarnPrivacy,
			Message:  message,
			Location: location,
		})
	}

	return warnings
}
