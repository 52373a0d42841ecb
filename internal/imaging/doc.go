// Package imaging decodes raw or base64 image payloads and prepares them for
// recognition. The pipeline never touches the filesystem: payloads arrive as
// bytes from the caller, get normalized (grayscale, upscaling of small
// scans), and leave as PNG bytes for the engine layer.
package imaging
