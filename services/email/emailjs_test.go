package emailsvc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadhub/backend/core"
)

func newEmailJSConf(baseURL string) *core.Config {
	conf := &core.Config{AppName: "AcadHub"}
	conf.Mail.EmailJS.BaseURL = baseURL
	conf.Mail.EmailJS.ServiceID = "service_x"
	conf.Mail.EmailJS.TemplateID = "template_y"
	conf.Mail.EmailJS.PublicKey = "pub"
	conf.Mail.EmailJS.PrivateKey = "priv"
	return conf
}

func testMessage() *core.EmailMessage {
	return &core.EmailMessage{
		To:      []mail.Address{{Name: "Asha", Address: "asha@test.cd"}},
		Subject: "24 Hours Until Due: OS assignment",
		TemplateParams: map[string]string{
			"to_email":       "asha@test.cd",
			"reminder_title": "OS assignment",
			"window_label":   "24 Hours Until Due",
		},
	}
}

func Test_emailjsService_SendMessage(t *testing.T) {
	var got emailjsRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1.0/email/send", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	svc := NewEmailJSService(newEmailJSConf(srv.URL))
	require.NoError(t, svc.SendMessage(context.Background(), testMessage()))

	assert.Equal(t, "service_x", got.ServiceID)
	assert.Equal(t, "template_y", got.TemplateID)
	assert.Equal(t, "pub", got.UserID)
	assert.Equal(t, "priv", got.AccessToken)
	assert.Equal(t, "OS assignment", got.TemplateParams["reminder_title"])
}

func Test_emailjsService_SendMessage_notConfigured(t *testing.T) {
	conf := newEmailJSConf("http://localhost:9")
	conf.Mail.EmailJS.PrivateKey = ""

	svc := NewEmailJSService(conf)
	err := svc.SendMessage(context.Background(), testMessage())
	assert.Equal(t, core.ErrMailNotConfigured, err)
}

func Test_emailjsService_SendMessage_apiError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "template not found", http.StatusBadRequest)
	}))
	defer srv.Close()

	svc := NewEmailJSService(newEmailJSConf(srv.URL))
	err := svc.SendMessage(context.Background(), testMessage())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status: 400")
	assert.Contains(t, err.Error(), "template not found")
}

func Test_emailjsService_SendMessage_noRecipients(t *testing.T) {
	svc := NewEmailJSService(newEmailJSConf("http://localhost:9"))
	err := svc.SendMessage(context.Background(), &core.EmailMessage{})
	assert.Error(t, err)
}
