package types

// Size represents width and height dimensions.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect is a display rectangle in virtual desktop pixels.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DisplayInfo describes the display the server drives.
type DisplayInfo struct {
	Index          int    `json:"index"`
	Bounds         Rect   `json:"bounds"`
	ScreenSize     Size   `json:"screenSize"`
	ActiveDisplays int    `json:"activeDisplays"`
	Platform       string `json:"platform"`
	InputSupported bool   `json:"inputSupported"`
}
