package emailsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/acadhub/backend/core"
)

const emailjsSendPath = "/api/v1.0/email/send"

// emailjsRequest is the provider's wire contract; template rendering happens
// provider-side against TemplateParams.
type emailjsRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`     // public key
	AccessToken    string            `json:"accessToken"` // private key
	TemplateParams map[string]string `json:"template_params"`
}

type emailjsService struct {
	conf   *core.Config
	client *http.Client
}

var _ core.EmailService = (*emailjsService)(nil)

func NewEmailJSService(conf *core.Config) *emailjsService {
	return &emailjsService{
		conf:   conf,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (svc *emailjsService) SendMessage(ctx context.Context, msg *core.EmailMessage) error {
	c := svc.conf.Mail.EmailJS
	if c.ServiceID == "" || c.TemplateID == "" || c.PublicKey == "" || c.PrivateKey == "" {
		return core.ErrMailNotConfigured
	}
	if !msg.HasRecipients() || !msg.HasContent() {
		return errors.New("message has no recipients or content")
	}

	body, err := json.Marshal(emailjsRequest{
		ServiceID:      c.ServiceID,
		TemplateID:     c.TemplateID,
		UserID:         c.PublicKey,
		AccessToken:    c.PrivateKey,
		TemplateParams: msg.TemplateParams,
	})
	if err != nil {
		return errors.Wrap(err, "marshalling emailjs request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+emailjsSendPath, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "building emailjs request")
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := svc.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "calling emailjs API")
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode >= http.StatusBadRequest {
		resBody, _ := ioutil.ReadAll(res.Body)
		return errors.Errorf("emailjs API - status: %d - body: %s", res.StatusCode, resBody)
	}
	return nil
}
