// Package kakao implements the subset of the Kakao Open Builder skill
// webhook contract this backend speaks: incoming skill payloads and
// outgoing 2.0 skill responses.
package kakao

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// UserProperties carries the alternative identifiers Open Builder attaches
// to a chat user.
type UserProperties struct {
	PlusfriendUserKey string `json:"plusfriendUserKey"`
	AppUserID         string `json:"appUserId"`
	IsFriend          bool   `json:"isFriend"`
}

// User identifies the chat user issuing the request.
type User struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Properties UserProperties `json:"properties"`
}

// UserRequest is the user-facing half of a skill payload.
type UserRequest struct {
	Timezone  string `json:"timezone"`
	Utterance string `json:"utterance"`
	Lang      string `json:"lang"`
	User      User   `json:"user"`
}

// DetailParam is a recognized entity with both its raw utterance form and
// the resolved value.
type DetailParam struct {
	Origin    string `json:"origin"`
	Value     string `json:"value"`
	GroupName string `json:"groupName"`
}

// Action describes the matched skill block and its parameters.
type Action struct {
	ID           string                 `json:"id"`
	Name         string                 `json:"name"`
	Params       map[string]string      `json:"params"`
	DetailParams map[string]DetailParam `json:"detailParams"`
	ClientExtra  map[string]interface{} `json:"clientExtra"`
}

// Block identifies the Open Builder block that fired.
type Block struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ContextParam is one value stored inside a conversation context.
type ContextParam struct {
	Value         string `json:"value"`
	ResolvedValue string `json:"resolvedValue,omitempty"`
}

// Context is a piece of conversation state Open Builder replays on each
// request until its lifespan or TTL runs out.
type Context struct {
	Name     string                  `json:"name"`
	LifeSpan int                     `json:"lifeSpan"`
	TTL      int                     `json:"ttl,omitempty"`
	Params   map[string]ContextParam `json:"params,omitempty"`
}

// Payload is a full incoming skill request.
type Payload struct {
	Intent      Block       `json:"intent"`
	UserRequest UserRequest `json:"userRequest"`
	Bot         Block       `json:"bot"`
	Action      Action      `json:"action"`
	Contexts    []Context   `json:"contexts"`
}

// ParsePayload decodes a skill payload from a request body.
func ParsePayload(r io.Reader) (*Payload, error) {
	var p Payload
	dec := json.NewDecoder(r)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode skill payload: %w", err)
	}
	if strings.TrimSpace(p.UserRequest.User.ID) == "" {
		return nil, fmt.Errorf("skill payload has no user id")
	}
	return &p, nil
}

// UserID returns the primary Kakao user identifier.
func (p *Payload) UserID() string {
	return p.UserRequest.User.ID
}

// Identity returns every identifier carried by the payload, in the order
// (kakao id, plusfriend user key, app user id).
func (p *Payload) Identity() (string, string, string) {
	props := p.UserRequest.User.Properties
	return p.UserRequest.User.ID, props.PlusfriendUserKey, props.AppUserID
}

// Param returns the resolved value of a detail param, or "" when absent.
func (p *Payload) Param(name string) string {
	if dp, ok := p.Action.DetailParams[name]; ok {
		return dp.Value
	}
	return p.Action.Params[name]
}

// ParamOrigin returns the raw utterance form of a detail param.
func (p *Payload) ParamOrigin(name string) string {
	if dp, ok := p.Action.DetailParams[name]; ok {
		return dp.Origin
	}
	return ""
}

// ClientExtraString reads a string out of the block's clientExtra map.
func (p *Payload) ClientExtraString(key string) string {
	if p.Action.ClientExtra == nil {
		return ""
	}
	if v, ok := p.Action.ClientExtra[key].(string); ok {
		return v
	}
	return ""
}

// FindContext returns the named conversation context, or nil.
func FindContext(contexts []Context, name string) *Context {
	for i := range contexts {
		if contexts[i].Name == name {
			return &contexts[i]
		}
	}
	return nil
}

// RemoveContext drops the named context from the slice.
func RemoveContext(contexts []Context, name string) []Context {
	out := contexts[:0]
	for _, ctx := range contexts {
		if ctx.Name != name {
			out = append(out, ctx)
		}
	}
	return out
}
