package statics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sandol-project/kakao-bot-service/internal/app/domain/statics"
	"github.com/sandol-project/kakao-bot-service/internal/cache"
	"github.com/sandol-project/kakao-bot-service/internal/kakao"
	"github.com/sandol-project/kakao-bot-service/internal/upstream"
)

func TestFormatPhoneNumber(t *testing.T) {
	cases := map[string]string{
		"021234567":     "02-123-4567",
		"0311234567":    "031-123-4567",
		"03180410510":   "031-8041-0510",
		"031-8041-0510": "031-8041-0510",
		"1234":          "1234",
		"":              "",
	}
	for in, want := range cases {
		require.Equal(t, want, FormatPhoneNumber(in), "input %q", in)
	}
}

func TestUnitCardContactRows(t *testing.T) {
	card := UnitCard(statics.Unit{
		Name:  "컴퓨터공학부",
		Phone: "03180410510",
		URL:   "https://cs.example.ac.kr",
	})
	require.Equal(t, "컴퓨터공학부", card.Head.Title)
	require.Len(t, card.ItemList, 2)
	require.Equal(t, "031-8041-0510", card.ItemList[0].Description)
	require.Len(t, card.Buttons, 2)
	require.Equal(t, "phone", card.Buttons[0].Action)
	require.Equal(t, "webLink", card.Buttons[1].Action)
}

func TestUnitCardWithoutContact(t *testing.T) {
	card := UnitCard(statics.Unit{Name: "어딘가"})
	require.Len(t, card.ItemList, 1)
	require.Equal(t, "정보 없음", card.ItemList[0].Title)
	require.Empty(t, card.Buttons)
}

func newTestService(t *testing.T, handler http.Handler, c cache.Cache) (*Service, func()) {
	t.Helper()
	srv := httptest.NewServer(handler)
	client, err := upstream.New("static-info", srv.Client(), srv.URL, nil)
	require.NoError(t, err)
	return New(client, c, time.Minute, 4, nil), srv.Close
}

func payloadWithParam(t *testing.T, body string) *kakao.Payload {
	t.Helper()
	var p kakao.Payload
	require.NoError(t, json.Unmarshal([]byte(body), &p))
	return &p
}

const groupJSON = `{
	"type": "group",
	"name": "공과대학",
	"subunits": {
		"컴퓨터공학부": {"type": "unit", "name": "컴퓨터공학부", "phone": "0311234567"},
		"기계공학과": {"type": "unit", "name": "기계공학과"},
		"건축학부": {"type": "group", "name": "건축학부", "subunits": {}}
	}
}`

func TestInfoRendersGroupList(t *testing.T) {
	svc, closeSrv := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/organization/공과대학", r.URL.Path)
		w.Write([]byte(groupJSON))
	}), nil)
	defer closeSrv()

	p := payloadWithParam(t, `{
		"userRequest": {"user": {"id": "kakao-1"}},
		"action": {"params": {"organization": "공과대학"}}
	}`)
	resp, err := svc.Info(context.Background(), p)
	require.NoError(t, err)

	encoded, err := json.Marshal(resp)
	require.NoError(t, err)
	body := string(encoded)
	require.Contains(t, body, `"listCard"`)
	require.Contains(t, body, "공과대학")
	// A subgroup row links onward by utterance, a unit row by block.
	require.Contains(t, body, "하위 조직 보기")
	require.Contains(t, body, "클릭해 정보보기")
}

func TestInfoRendersUnitCard(t *testing.T) {
	svc, closeSrv := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"type": "unit", "name": "학사팀", "phone": "021234567"}`))
	}), nil)
	defer closeSrv()

	p := payloadWithParam(t, `{
		"userRequest": {"user": {"id": "kakao-1"}},
		"action": {"params": {"organization": "학사팀"}}
	}`)
	resp, err := svc.Info(context.Background(), p)
	require.NoError(t, err)

	encoded, err := json.Marshal(resp)
	require.NoError(t, err)
	require.Contains(t, string(encoded), `"itemCard"`)
	require.Contains(t, string(encoded), "02-123-4567")
}

func TestInfoDefaultsToMainContact(t *testing.T) {
	var gotPath string
	svc, closeSrv := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"type": "unit", "name": "대표연락처", "phone": "021234567"}`))
	}), nil)
	defer closeSrv()

	p := payloadWithParam(t, `{"userRequest": {"user": {"id": "kakao-1"}}, "action": {}}`)
	_, err := svc.Info(context.Background(), p)
	require.NoError(t, err)
	require.Equal(t, "/organization/"+"대표연락처", gotPath)
}

func TestInfoUnparseableOrganization(t *testing.T) {
	svc, closeSrv := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"type": "alien", "name": "??"}`))
	}), nil)
	defer closeSrv()

	p := payloadWithParam(t, `{
		"userRequest": {"user": {"id": "kakao-1"}},
		"action": {"params": {"organization": "외계조직"}}
	}`)
	resp, err := svc.Info(context.Background(), p)
	require.NoError(t, err)

	encoded, err := json.Marshal(resp)
	require.NoError(t, err)
	require.Contains(t, string(encoded), "해당 조직을 찾을 수 없습니다.")
}

func TestUnitInfoFromClientExtra(t *testing.T) {
	svc := New(nil, nil, 0, 4, nil)
	p := payloadWithParam(t, `{
		"userRequest": {"user": {"id": "kakao-1"}},
		"action": {"clientExtra": {"name": "컴퓨터공학부", "phone": "03180410510"}}
	}`)
	resp, err := svc.UnitInfo(context.Background(), p)
	require.NoError(t, err)

	encoded, err := json.Marshal(resp)
	require.NoError(t, err)
	require.Contains(t, string(encoded), "031-8041-0510")
}

func TestShuttleInfoReversesImages(t *testing.T) {
	svc, closeSrv := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/bus/images", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string][]string{
			"image_urls": {"https://img/1.png", "https://img/2.png"},
		})
	}), nil)
	defer closeSrv()

	resp, err := svc.ShuttleInfo(context.Background(), &kakao.Payload{})
	require.NoError(t, err)

	encoded, err := json.Marshal(resp)
	require.NoError(t, err)
	var envelope struct {
		Template struct {
			Outputs []map[string]struct {
				ImageURL string `json:"imageUrl"`
			} `json:"outputs"`
		} `json:"template"`
	}
	require.NoError(t, json.Unmarshal(encoded, &envelope))
	require.Len(t, envelope.Template.Outputs, 2)
	require.Equal(t, "https://img/2.png", envelope.Template.Outputs[0]["simpleImage"].ImageURL)
	require.Equal(t, "https://img/1.png", envelope.Template.Outputs[1]["simpleImage"].ImageURL)
}

func TestSearchOrganizationUsesCache(t *testing.T) {
	var hits int
	svc, closeSrv := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`{"type": "unit", "name": "학사팀"}`))
	}), cache.NewMemory())
	defer closeSrv()

	for i := 0; i < 2; i++ {
		node, err := svc.SearchOrganization(context.Background(), "학사팀")
		require.NoError(t, err)
		require.NotNil(t, node)
		require.Equal(t, "학사팀", node.Name())
	}
	require.Equal(t, 1, hits)
}
