package telegram

import (
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "TESTTOKEN"

func TestClient_SendMessage(t *testing.T) {
	var gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		_, _ = io.WriteString(w, `{"ok":true,"result":{}}`)
	}))
	defer srv.Close()

	c := NewClientWithHost(srv.URL, testToken, 2*time.Second)
	require.NoError(t, c.SendMessage(123, "oi"))

	assert.Equal(t, "/bot"+testToken+"/sendMessage", gotPath)
	assert.Contains(t, gotBody, `"chat_id":123`)
	assert.Contains(t, gotBody, `"text":"oi"`)
}

func TestClient_SendMessageTruncatesLongText(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		_, _ = io.WriteString(w, `{"ok":true,"result":{}}`)
	}))
	defer srv.Close()

	c := NewClientWithHost(srv.URL, testToken, 2*time.Second)
	require.NoError(t, c.SendMessage(123, strings.Repeat("a", 5000)))

	assert.Contains(t, gotBody, strings.Repeat("a", maxMessageLength))
	assert.NotContains(t, gotBody, strings.Repeat("a", maxMessageLength+1))
}

func TestClient_SendMessageRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"ok":false,"description":"chat not found"}`)
	}))
	defer srv.Close()

	c := NewClientWithHost(srv.URL, testToken, 2*time.Second)
	err := c.SendMessage(123, "oi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestClient_GetFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bot"+testToken+"/getFile" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, `{"ok":true,"result":{"file_id":"f1","file_path":"photos/file_1.jpg"}}`)
	}))
	defer srv.Close()

	c := NewClientWithHost(srv.URL, testToken, 2*time.Second)
	file, err := c.GetFile("f1")
	require.NoError(t, err)
	assert.Equal(t, "photos/file_1.jpg", file.FilePath)
}

func TestClient_DownloadFileBase64(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/file/bot"+testToken+"/photos/file_1.jpg" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("raw image bytes"))
	}))
	defer srv.Close()

	c := NewClientWithHost(srv.URL, testToken, 2*time.Second)
	encoded, err := c.DownloadFileBase64("photos/file_1.jpg")
	require.NoError(t, err)

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	assert.Equal(t, "raw image bytes", string(decoded))
}

func TestClient_DownloadFileBase64NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	c := NewClientWithHost(srv.URL, testToken, 2*time.Second)
	_, err := c.DownloadFileBase64("photos/missing.jpg")
	assert.Error(t, err)
}

func TestClient_SetAndDeleteWebhook(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		_, _ = io.WriteString(w, `{"ok":true,"result":true}`)
	}))
	defer srv.Close()

	c := NewClientWithHost(srv.URL, testToken, 2*time.Second)
	require.NoError(t, c.SetWebhook("https://example.com/telegram"))
	require.NoError(t, c.DeleteWebhook(true))

	assert.Equal(t, []string{
		"/bot" + testToken + "/setWebhook",
		"/bot" + testToken + "/deleteWebhook",
	}, paths)
}
