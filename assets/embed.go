package assets

import (
	"embed"
	"io"
)

//go:embed words.txt
var FS embed.FS

// Words opens the embedded default dictionary.
func Words() (io.ReadCloser, error) {
	return FS.Open("words.txt")
}
