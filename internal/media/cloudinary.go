package media

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"github.com/rotisserie/eris"
)

const uploadFolder = "blog-images"

// Uploader stores an image on the external media host and returns its public
// URL.
type Uploader interface {
	Upload(fileName string, data []byte) (string, error)
}

// CloudinaryClient uploads images through the Cloudinary REST API using a
// signed request.
type CloudinaryClient struct {
	cloudName  string
	apiKey     string
	apiSecret  string
	httpClient *http.Client
}

func NewCloudinaryClient() *CloudinaryClient {
	return &CloudinaryClient{
		cloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		apiKey:    os.Getenv("CLOUDINARY_API_KEY"),
		apiSecret: os.Getenv("CLOUDINARY_API_SECRET"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

var _ Uploader = (*CloudinaryClient)(nil)

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends the image to Cloudinary and returns the hosted HTTPS URL.
func (c *CloudinaryClient) Upload(fileName string, data []byte) (string, error) {
	if c.cloudName == "" || c.apiKey == "" || c.apiSecret == "" {
		return "", eris.New("cloudinary credentials are not configured")
	}

	timestamp := fmt.Sprintf("%d", time.Now().Unix())

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return "", eris.Wrap(err, "creating form file")
	}
	if _, err := part.Write(data); err != nil {
		return "", eris.Wrap(err, "writing file data")
	}

	fields := map[string]string{
		"api_key":   c.apiKey,
		"timestamp": timestamp,
		"folder":    uploadFolder,
		"signature": c.sign(timestamp),
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return "", eris.Wrapf(err, "writing field %s", name)
		}
	}
	if err := writer.Close(); err != nil {
		return "", eris.Wrap(err, "closing multipart writer")
	}

	endpoint := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/upload", c.cloudName)
	req, err := http.NewRequest(http.MethodPost, endpoint, &body)
	if err != nil {
		return "", eris.Wrap(err, "building upload request")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "uploading to Cloudinary")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", eris.Wrap(err, "reading upload response")
	}

	var result uploadResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", eris.Wrap(err, "decoding upload response")
	}

	if resp.StatusCode != http.StatusOK {
		if result.Error.Message != "" {
			return "", eris.Errorf("cloudinary upload failed: %s", result.Error.Message)
		}
		return "", eris.Errorf("cloudinary upload failed with status %d", resp.StatusCode)
	}

	return result.SecureURL, nil
}

// sign produces the SHA-1 request signature Cloudinary expects over the
// sorted non-file parameters plus the API secret.
func (c *CloudinaryClient) sign(timestamp string) string {
	payload := fmt.Sprintf("folder=%s&timestamp=%s%s", uploadFolder, timestamp, c.apiSecret)
	sum := sha1.Sum([]byte(payload))
	return hex.EncodeToString(sum[:])
}
