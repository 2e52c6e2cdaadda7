package routes

import (
	"petpal_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterS3Routes registers avatar presign routes under `/api/avatars`
func RegisterS3Routes(router *mux.Router) {
	avatarRouter := router.PathPrefix("/api/avatars").Subrouter()
	avatarRouter.HandleFunc("/upload-url", controllers.GetAvatarUploadURL).Methods("GET") // Presigned PUT URL
	avatarRouter.HandleFunc("/read-url", controllers.GetAvatarReadURL).Methods("GET")     // Presigned GET URL
}
