package styles

// Nerd Font icons (requires a Nerd Font to display correctly)
const (
	IconCheck    = "\uf00c" // check
	IconX        = "\uf00d" // x
	IconInfo     = "\uf05a" // info
	IconConfig   = "\ue615" // config
	IconDatabase = "\uf1c0" // database
	IconKeyboard = "\uf11c" // keyboard
	IconCursor   = "\uf054" // chevron-right

	IconVersion   = "\uf02b" // tag
	IconGitBranch = "\ue725" // git branch
	IconCalendar  = "\uf073" // calendar
	IconGo        = "\ue627" // go
	IconGithub    = "\uf09b" // github
	IconDocument  = "\uf15c" // file-text
)

// Frame title bar glyphs, one cell each.
const (
	GlyphClose   = "x"
	GlyphZoom    = "+"
	GlyphRestore = "-"
	GlyphPin     = "o"
	GlyphUnpin   = "*"
	GlyphOptions = "="
)

// ButtonGlyph maps a title bar icon key to its glyph.
func ButtonGlyph(icon string) string {
	switch icon {
	case "close":
		return GlyphClose
	case "zoom":
		return GlyphZoom
	case "restore":
		return GlyphRestore
	case "pin":
		return GlyphPin
	case "unpin":
		return GlyphUnpin
	case "options":
		return GlyphOptions
	default:
		return "?"
	}
}
