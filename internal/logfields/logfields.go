package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeySlug       = "slug"
	KeyTag        = "tag"
	KeyPath       = "path"
	KeyOutput     = "output"
	KeyPosts      = "posts"
	KeyPages      = "pages"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Slug(s string) slog.Attr         { return slog.String(KeySlug, s) }
func Tag(t string) slog.Attr          { return slog.String(KeyTag, t) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Output(dir string) slog.Attr     { return slog.String(KeyOutput, dir) }
func Posts(n int) slog.Attr           { return slog.Int(KeyPosts, n) }
func Pages(n int) slog.Attr           { return slog.Int(KeyPages, n) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
