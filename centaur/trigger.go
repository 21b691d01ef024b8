package centaur

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// TriggerClient calls the Centaur SOAP service that transfers the paylink
// file and runs the remote delinquency computation. Both operations are
// blocking calls measured in minutes; each gets exactly one attempt per run
// and a failed or timed-out call is retried by the next scheduled trigger,
// never in-process.
type TriggerClient struct {
	endpoint           string
	httpClient         *http.Client
	paylinkTimeout     time.Duration
	delinquencyTimeout time.Duration
}

// NewTriggerClient creates a SOAP client for the given service endpoint.
func NewTriggerClient(endpoint string, paylinkTimeout, delinquencyTimeout time.Duration) *TriggerClient {
	return &TriggerClient{
		endpoint:           endpoint,
		httpClient:         &http.Client{},
		paylinkTimeout:     paylinkTimeout,
		delinquencyTimeout: delinquencyTimeout,
	}
}

type soapEnvelope struct {
	XMLName xml.Name `xml:"http://schemas.xmlsoap.org/soap/envelope/ Envelope"`
	Body    soapBody `xml:"Body"`
}

type soapBody struct {
	Payload []byte `xml:",innerxml"`
}

// TransferPaylinkFile asks Centaur to transfer the paylink payment file.
func (c *TriggerClient) TransferPaylinkFile(ctx context.Context) (bool, error) {
	return c.call(ctx, "TransferPaylinkFile", c.paylinkTimeout)
}

// ProcessDelinquency triggers the remote delinquency computation and reports
// whether it finished.
func (c *TriggerClient) ProcessDelinquency(ctx context.Context) (bool, error) {
	return c.call(ctx, "ProcessDeliquency", c.delinquencyTimeout)
}

func (c *TriggerClient) call(ctx context.Context, operation string, timeout time.Duration) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	reqBody := fmt.Sprintf(
		`<?xml version="1.0" encoding="utf-8"?>`+
			`<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">`+
			`<soap:Body><%s xmlns="http://tempuri.org/" /></soap:Body>`+
			`</soap:Envelope>`, operation)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBufferString(reqBody))
	if err != nil {
		return false, fmt.Errorf("failed to build %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", fmt.Sprintf("http://tempuri.org/%s", operation))

	log.WithFields(log.Fields{
		"operation": operation,
		"timeout":   timeout,
	}).Info("Calling Centaur service")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("%s call failed: %w", operation, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("failed to read %s response: %w", operation, err)
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("%s returned status %d", operation, resp.StatusCode)
	}

	return parseSOAPResult(body, operation)
}

// parseSOAPResult extracts the boolean <...Result> element from a SOAP
// response envelope of the shape
// <Envelope><Body><OpResponse><OpResult>true</OpResult></OpResponse></Body></Envelope>.
func parseSOAPResult(body []byte, operation string) (bool, error) {
	var envelope soapEnvelope
	if err := xml.Unmarshal(body, &envelope); err != nil {
		return false, fmt.Errorf("failed to decode %s response: %w", operation, err)
	}

	var payload struct {
		Response struct {
			Result struct {
				Value string `xml:",chardata"`
			} `xml:",any"`
		} `xml:",any"`
	}
	if err := xml.Unmarshal(wrap(envelope.Body.Payload), &payload); err != nil {
		return false, fmt.Errorf("failed to decode %s result: %w", operation, err)
	}

	v := strings.TrimSpace(payload.Response.Result.Value)
	return strings.EqualFold(v, "true") || v == "1", nil
}

func wrap(inner []byte) []byte {
	out := make([]byte, 0, len(inner)+13)
	out = append(out, "<payload>"...)
	out = append(out, inner...)
	out = append(out, "</payload>"...)
	return out
}
