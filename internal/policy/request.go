package policy

import (
	"encoding/json"
	"fmt"
)

// Action discriminates the policy-server passthrough payloads.
type Action string

const (
	ActionInitiate            Action = "initiate"
	ActionCheckSessionID      Action = "checkSessionId"
	ActionGetPD               Action = "getPD"
	ActionPresentationRequest Action = "presentationRequest"
	ActionDownload            Action = "download"
	ActionPassthrough         Action = "passthrough"
)

// SessionParams identifies a verifier session and the redirect URIs the policy
// server fills in.
type SessionParams struct {
	SessionID                 string `json:"sessionId"`
	SuccessRedirectURI        string `json:"successRedirectUri"`
	ErrorRedirectURI          string `json:"errorRedirectUri"`
	ResponseRedirectURI       string `json:"responseRedirectUri"`
	PresentationDefinitionURI string `json:"presentationDefinitionUri"`
}

type initiatePayload struct {
	Action          Action        `json:"action"`
	DocumentID      string        `json:"documentId"`
	ServiceID       string        `json:"serviceId"`
	ConsumerAddress string        `json:"consumerAddress"`
	PolicyServer    SessionParams `json:"policyServer"`
}

type sessionPayload struct {
	Action    Action `json:"action"`
	SessionID string `json:"sessionId"`
}

// PresentationParams is the verifiable presentation submitted for a session.
type PresentationParams struct {
	SessionID              string          `json:"sessionId"`
	VPToken                json.RawMessage `json:"vp_token"`
	Response               json.RawMessage `json:"response,omitempty"`
	PresentationSubmission json.RawMessage `json:"presentation_submission"`
}

type presentationPayload struct {
	Action Action `json:"action"`
	PresentationParams
}

type downloadSession struct {
	SessionID string `json:"sessionId"`
}

type downloadPayload struct {
	Action       Action          `json:"action"`
	PolicyServer downloadSession `json:"policyServer"`
}

type passthroughPayload struct {
	Action     Action          `json:"action"`
	URL        string          `json:"url"`
	HTTPMethod string          `json:"httpMethod"`
	Body       json.RawMessage `json:"body,omitempty"`
}

// Request is one policy-server action. Build it with the constructor for the
// action; the zero value is not a valid request.
type Request struct {
	action  Action
	payload any
}

func NewInitiate(documentID, serviceID, consumerAddress string, session SessionParams) Request {
	return Request{action: ActionInitiate, payload: initiatePayload{
		Action:          ActionInitiate,
		DocumentID:      documentID,
		ServiceID:       serviceID,
		ConsumerAddress: consumerAddress,
		PolicyServer:    session,
	}}
}

func NewCheckSessionID(sessionID string) Request {
	return Request{action: ActionCheckSessionID, payload: sessionPayload{Action: ActionCheckSessionID, SessionID: sessionID}}
}

func NewGetPD(sessionID string) Request {
	return Request{action: ActionGetPD, payload: sessionPayload{Action: ActionGetPD, SessionID: sessionID}}
}

func NewPresentationRequest(params PresentationParams) Request {
	return Request{action: ActionPresentationRequest, payload: presentationPayload{Action: ActionPresentationRequest, PresentationParams: params}}
}

func NewDownload(sessionID string) Request {
	return Request{action: ActionDownload, payload: downloadPayload{Action: ActionDownload, PolicyServer: downloadSession{SessionID: sessionID}}}
}

func NewPassthrough(url, httpMethod string, body json.RawMessage) Request {
	return Request{action: ActionPassthrough, payload: passthroughPayload{Action: ActionPassthrough, URL: url, HTTPMethod: httpMethod, Body: body}}
}

func (r Request) Action() Action {
	return r.action
}

type envelope struct {
	PolicyServerPassthrough json.RawMessage `json:"policyServerPassthrough"`
}

// MarshalJSON encodes {"policyServerPassthrough": {"action": ..., ...}}.
func (r Request) MarshalJSON() ([]byte, error) {
	if r.payload == nil {
		return nil, fmt.Errorf("policy request has no action")
	}
	inner, err := json.Marshal(r.payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{PolicyServerPassthrough: inner})
}

// UnmarshalJSON decodes an envelope into the payload type its action names.
func (r *Request) UnmarshalJSON(data []byte) error {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	var head struct {
		Action Action `json:"action"`
	}
	if err := json.Unmarshal(env.PolicyServerPassthrough, &head); err != nil {
		return err
	}

	var payload any
	switch head.Action {
	case ActionInitiate:
		payload = &initiatePayload{}
	case ActionCheckSessionID, ActionGetPD:
		payload = &sessionPayload{}
	case ActionPresentationRequest:
		payload = &presentationPayload{}
	case ActionDownload:
		payload = &downloadPayload{}
	case ActionPassthrough:
		payload = &passthroughPayload{}
	default:
		return fmt.Errorf("unknown policy action %q", head.Action)
	}
	if err := json.Unmarshal(env.PolicyServerPassthrough, payload); err != nil {
		return fmt.Errorf("decode %s payload: %w", head.Action, err)
	}
	r.action = head.Action
	r.payload = deref(payload)
	return nil
}

func deref(p any) any {
	switch v := p.(type) {
	case *initiatePayload:
		return *v
	case *sessionPayload:
		return *v
	case *presentationPayload:
		return *v
	case *downloadPayload:
		return *v
	case *passthroughPayload:
		return *v
	}
	return p
}

// SessionID returns the verifier session the request is about, if any.
func (r Request) SessionID() string {
	switch p := r.payload.(type) {
	case initiatePayload:
		return p.PolicyServer.SessionID
	case sessionPayload:
		return p.SessionID
	case presentationPayload:
		return p.SessionID
	case downloadPayload:
		return p.PolicyServer.SessionID
	}
	return ""
}
