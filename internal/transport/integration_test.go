//go:build integration

package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vpetrovich/stockroom/internal/entity"
)

// Requires a running API, postgres and redis. Start the stack and run:
//
//	STOCKROOM_API_URL=http://localhost:8080 go test -tags integration ./internal/transport/
func apiURL(t *testing.T) string {
	url := os.Getenv("STOCKROOM_API_URL")
	if url == "" {
		t.Skip("STOCKROOM_API_URL not set")
	}
	return url
}

func newAPIClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}

func TestHealthEndpoint(t *testing.T) {
	client := newAPIClient()

	resp, err := client.Get(apiURL(t) + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestProductLifecycle(t *testing.T) {
	client := newAPIClient()
	base := apiURL(t) + "/api/v1/products"

	sku := fmt.Sprintf("IT-%d", time.Now().UnixNano())
	body := fmt.Sprintf(`{"sku":%q,"name":"Integration widget","price":9.99,"quantity":20,"reorder_level":5}`, sku)

	resp, err := client.Post(base, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var product entity.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&product))
	require.NotZero(t, product.ID)

	productURL := fmt.Sprintf("%s/%d", base, product.ID)

	// duplicate sku must be rejected
	resp, err = client.Post(base, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// adjust below reorder level and check the low-stock list
	resp, err = client.Post(productURL+"/adjust", "application/json",
		bytes.NewBufferString(`{"delta":-16,"reason":"integration order"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var adjusted entity.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&adjusted))
	assert.Equal(t, 4, adjusted.Quantity)

	resp, err = client.Get(base + "/low-stock")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var lowStock []entity.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&lowStock))
	found := false
	for _, p := range lowStock {
		if p.ID == product.ID {
			found = true
		}
	}
	assert.True(t, found, "product should appear in low-stock list")

	// overdraw must be refused
	resp, err = client.Post(productURL+"/adjust", "application/json",
		bytes.NewBufferString(`{"delta":-100}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// delete is refused while stock remains
	req, err := http.NewRequest(http.MethodDelete, productURL, nil)
	require.NoError(t, err)
	resp, err = client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// drain and delete
	resp, err = client.Post(productURL+"/adjust", "application/json",
		bytes.NewBufferString(`{"delta":-4,"reason":"drain"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	req, err = http.NewRequest(http.MethodDelete, productURL, nil)
	require.NoError(t, err)
	resp, err = client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = client.Get(productURL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFileUploadDownloadRoundtrip(t *testing.T) {
	client := newAPIClient()
	base := apiURL(t) + "/api/v1/files"

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("folder", "integration"))
	part, err := mw.CreateFormFile("file", "roundtrip.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("roundtrip payload"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := client.Post(base, mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result entity.UploadResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.NotEmpty(t, result.Key)

	resp, err = client.Get(base + "/download/" + result.Key)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body bytes.Buffer
	_, err = body.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "roundtrip payload", body.String())

	req, err := http.NewRequest(http.MethodDelete, base+"/"+result.Key, nil)
	require.NoError(t, err)
	resp, err = client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
