package service

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
)

const svgTemplate = `<svg xmlns='http://www.w3.org/2000/svg' width='256' height='256'><rect width='100%%' height='100%%' fill='blue'/><text x='50%%' y='50%%' dominant-baseline='middle' text-anchor='middle' font-size='20' fill='white'>%s</text></svg>`

// GenerateImage renders prompt into a placeholder SVG and returns it as a
// base64 data URI. It never fails.
func (s *Service) GenerateImage(prompt string) string {
	return GenerateImage(prompt)
}

// GenerateImage is the stateless form of Service.GenerateImage.
func GenerateImage(prompt string) string {
	var escaped bytes.Buffer
	// Writes to a bytes.Buffer cannot fail.
	_ = xml.EscapeText(&escaped, []byte(prompt))
	svg := fmt.Sprintf(svgTemplate, escaped.String())
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))
}
