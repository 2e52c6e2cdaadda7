package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

func newInvitationRouter() *mux.Router {
	controller := &InvitationController{}
	router := mux.NewRouter()
	router.HandleFunc("/api/invitations", controller.SendHandler).Methods("POST")
	router.HandleFunc("/api/invitations/{invitationId}/respond", controller.RespondHandler).Methods("PUT")
	return router
}

func TestSendHandlerRejectsBadPayload(t *testing.T) {
	router := newInvitationRouter()

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/api/invitations", strings.NewReader("not json"))
	router.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = httptest.NewRecorder()
	request = httptest.NewRequest(http.MethodPost, "/api/invitations", strings.NewReader(`{"message":"hi"}`))
	router.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestRespondHandlerRejectsInvalidDecision(t *testing.T) {
	router := newInvitationRouter()

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPut, "/api/invitations/inv1/respond", strings.NewReader(`{"decision":"maybe"}`))
	router.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
