package statics

import (
	"regexp"
	"sort"

	"github.com/sandol-project/kakao-bot-service/internal/app/blocks"
	"github.com/sandol-project/kakao-bot-service/internal/app/domain/statics"
	"github.com/sandol-project/kakao-bot-service/internal/kakao"
)

var nonDigits = regexp.MustCompile(`[^0-9]`)

// FormatPhoneNumber renders a phone number with the dashes Korean numbers
// carry, by digit count. Unrecognized lengths come back digits-only.
func FormatPhoneNumber(phone string) string {
	digits := nonDigits.ReplaceAllString(phone, "")
	switch len(digits) {
	case 9:
		return digits[:2] + "-" + digits[2:5] + "-" + digits[5:]
	case 10:
		return digits[:3] + "-" + digits[3:6] + "-" + digits[6:]
	case 11:
		return digits[:3] + "-" + digits[3:7] + "-" + digits[7:]
	default:
		return digits
	}
}

// UnitCard renders a leaf organization: phone row with a dial button, and
// homepage row with a weblink button.
func UnitCard(unit statics.Unit) kakao.ItemCard {
	card := kakao.ItemCard{Head: &kakao.ListHeader{Title: unit.Name}}
	if unit.Phone != "" {
		card = card.AddItem("전화번호", FormatPhoneNumber(unit.Phone))
		card = card.AddButton(kakao.PhoneButton("전화 걸기", unit.Phone))
	}
	if unit.URL != "" {
		card = card.AddItem("홈페이지", unit.URL)
		card = card.AddButton(kakao.WebLinkButton("홈페이지 방문", unit.URL))
	}
	if unit.Phone == "" && unit.URL == "" {
		card = card.AddItem("정보 없음", "전화번호 및 홈페이지 정보가 없습니다.")
	}
	return card
}

func memberItem(node statics.Node) kakao.ListItem {
	if group := node.Group; group != nil {
		return kakao.ListItem{
			Title:       group.Name,
			Description: "하위 조직 보기",
			Action:      "message",
			MessageText: group.Name + " 정보",
		}
	}
	unit := node.Unit
	return kakao.ListItem{
		Title:       unit.Name,
		Description: "클릭해 정보보기",
		Action:      "block",
		BlockID:     blocks.UnitInfo,
		Extra: map[string]interface{}{
			"name":  unit.Name,
			"phone": unit.Phone,
			"url":   unit.URL,
		},
	}
}

// GroupList renders a group's members sorted by name: one list card when
// they fit, otherwise a carousel of list cards in chunks of four.
func GroupList(group statics.Group) kakao.Component {
	members := group.Members()
	sort.Slice(members, func(i, j int) bool { return members[i].Name() < members[j].Name() })

	if len(members) <= kakao.ListCardMaxItems {
		card := kakao.ListCard{Header: kakao.ListHeader{Title: group.Name}}
		for _, member := range members {
			card = card.AddItem(memberItem(member))
		}
		return card
	}

	carousel := kakao.NewCarousel("listCard")
	for start := 0; start < len(members); start += kakao.CarouselListCardMaxItems {
		end := start + kakao.CarouselListCardMaxItems
		if end > len(members) {
			end = len(members)
		}
		card := kakao.ListCard{Header: kakao.ListHeader{Title: group.Name}}
		for _, member := range members[start:end] {
			card = card.AddItem(memberItem(member))
		}
		carousel = carousel.AddCard(card)
	}
	return carousel
}
