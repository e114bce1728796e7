package ruqqus

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	pkgerrs "github.com/jamesprial/go-ruqqus-api-wrapper/pkg/errors"
)

// imgurUploadURL is the anonymous upload endpoint of the Imgur API.
const imgurUploadURL = "https://api.imgur.com/3/upload"

// ImgurUpload anonymously uploads a local image to Imgur and returns the
// direct link to it. The service rejects hotlinks from most image hosts, so
// proxying an image through Imgur first is the usual way to create an image
// post. clientID is an Imgur application client ID; no user authentication
// is involved. A nil httpClient falls back to http.DefaultClient.
func ImgurUpload(ctx context.Context, httpClient *http.Client, clientID, imagePath string) (string, error) {
	if clientID == "" {
		return "", &pkgerrs.InvalidArgumentError{Argument: "clientID", Message: "client ID cannot be empty"}
	}
	if imagePath == "" {
		return "", &pkgerrs.InvalidArgumentError{Argument: "imagePath", Message: "image path cannot be empty"}
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	file, err := os.Open(imagePath)
	if err != nil {
		return "", &pkgerrs.APIError{Message: "failed to open image", Err: err}
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", filepath.Base(imagePath))
	if err != nil {
		return "", &pkgerrs.APIError{Message: "failed to encode image", Err: err}
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", &pkgerrs.APIError{Message: "failed to read image", Err: err}
	}
	if err := writer.Close(); err != nil {
		return "", &pkgerrs.APIError{Message: "failed to finalize form body", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, imgurUploadURL, &buf)
	if err != nil {
		return "", &pkgerrs.APIError{Message: "failed to create upload request", Err: err}
	}
	req.Header.Set("Authorization", "Client-ID "+clientID)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", &pkgerrs.APIError{URL: imgurUploadURL, Message: "upload failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &pkgerrs.APIError{StatusCode: resp.StatusCode, URL: imgurUploadURL, Message: "failed to read upload response", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &pkgerrs.APIError{
			StatusCode: resp.StatusCode,
			URL:        imgurUploadURL,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	var result struct {
		Data struct {
			Link string `json:"link"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", &pkgerrs.ParseError{Operation: "imgur upload", Err: err}
	}
	if result.Data.Link == "" {
		return "", &pkgerrs.ParseError{Operation: "imgur upload", Err: errors.New("response carried no link")}
	}
	return result.Data.Link, nil
}
