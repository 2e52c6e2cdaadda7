package controllers

import (
	"net/http"

	"petpal_server/services"
)

// GetAvatarUploadURL handles requests for a presigned avatar upload URL
func GetAvatarUploadURL(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	contentType := r.URL.Query().Get("contentType")
	if userID == "" || contentType == "" {
		http.Error(w, "userId and contentType are required", http.StatusBadRequest)
		return
	}

	url, key, err := services.GenerateAvatarUploadURL(userID, contentType)
	if err != nil {
		http.Error(w, "Failed to generate upload URL", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]string{
		"uploadUrl": url,
		"key":       key,
	})
}

// GetAvatarReadURL handles requests for a presigned avatar read URL
func GetAvatarReadURL(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, "key is required", http.StatusBadRequest)
		return
	}

	url, err := services.GenerateAvatarReadURL(key)
	if err != nil {
		http.Error(w, "Failed to generate read URL", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]string{"url": url})
}
