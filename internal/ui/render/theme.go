package render

import "github.com/gdamore/tcell/v2"

// ColorTheme defines application colors.
type ColorTheme struct {
	Background  tcell.Color
	Foreground  tcell.Color
	HiddenFg    tcell.Color
	SelectionBg tcell.Color
	SelectionFg tcell.Color
	DirectoryFg tcell.Color
	SymlinkFg   tcell.Color
	FileFg      tcell.Color
	MarkerFg    tcell.Color
	ClipCopyFg  tcell.Color
	ClipCutFg   tcell.Color
	HeaderBg    tcell.Color
	HeaderFg    tcell.Color
	FooterBg    tcell.Color
	FooterFg    tcell.Color
	NoticeFg    tcell.Color
	ErrorFg     tcell.Color
	PreviewFg   tcell.Color
	OverlayBg   tcell.Color
	OverlayFg   tcell.Color
}

// GetColorTheme returns the default color scheme.
func GetColorTheme() ColorTheme {
	return ColorTheme{
		Background:  tcell.ColorDefault,
		Foreground:  tcell.ColorDefault,
		HiddenFg:    tcell.ColorLightSlateGray,
		SelectionBg: tcell.Color33,
		SelectionFg: tcell.ColorWhite,
		DirectoryFg: tcell.Color33,
		SymlinkFg:   tcell.Color51,
		FileFg:      tcell.ColorDefault,
		MarkerFg:    tcell.Color214, // amber
		ClipCopyFg:  tcell.Color42,
		ClipCutFg:   tcell.Color167,
		HeaderBg:    tcell.ColorDefault,
		HeaderFg:    tcell.ColorDefault,
		FooterBg:    tcell.ColorDefault,
		FooterFg:    tcell.ColorDefault,
		NoticeFg:    tcell.ColorGreen,
		ErrorFg:     tcell.ColorRed,
		PreviewFg:   tcell.ColorDefault,
		OverlayBg:   tcell.Color236,
		OverlayFg:   tcell.Color252,
	}
}
