package meals

import (
	"fmt"
	"strings"

	"github.com/sandol-project/kakao-bot-service/internal/app/blocks"
	"github.com/sandol-project/kakao-bot-service/internal/app/domain/meal"
	"github.com/sandol-project/kakao-bot-service/internal/kakao"
	"github.com/sandol-project/kakao-bot-service/internal/platform/kst"
)

const noMenuMessage = "식단 정보가 없습니다."

// MenuCard renders one restaurant's menu for a slot as a text card titled
// "식당이름(점심)" with the menu lines and the update timestamp.
func MenuCard(card meal.Card) kakao.TextCard {
	title := fmt.Sprintf("%s(%s)", card.RestaurantName, card.Type.KoreanName())

	description := noMenuMessage
	if len(card.Menu) > 0 {
		description = strings.Join(card.Menu, "\n")
	}
	updated := card.UpdatedAt
	description += fmt.Sprintf(
		"\n%d월 %d일 %s요일 %d시 업데이트",
		int(updated.Month()), updated.Day(), kst.Weekday(updated.Weekday()), updated.Hour(),
	)

	return kakao.TextCard{Title: title, Description: description}.
		AddButton(kakao.BlockButton("식당 정보 보기", blocks.RestaurantInfo,
			map[string]interface{}{"restaurant_name": card.RestaurantName}))
}

// MenuCarousel groups menu cards into a text-card carousel. An empty input
// yields a single placeholder card so users still get a reply.
func MenuCarousel(cards []meal.Card) kakao.Carousel {
	carousel := kakao.NewCarousel("textCard")
	for _, card := range cards {
		carousel = carousel.AddCard(MenuCard(card))
	}
	if carousel.IsEmpty() {
		carousel = carousel.AddCard(kakao.TextCard{
			Title:       noMenuMessage,
			Description: noMenuMessage,
		})
	}
	return carousel
}

// RestaurantCard renders the restaurant detail item card: meal hours,
// classification, a "메뉴 보기" shortcut and a map link when one exists.
func RestaurantCard(r meal.Restaurant) kakao.ItemCard {
	card := kakao.ItemCard{
		ImageTitle: &kakao.ImageTitle{Title: r.Name, Description: "식당 정보"},
	}
	if r.LunchTime != nil {
		card = card.AddItem("점심 시간", r.LunchTime.String())
	}
	if r.DinnerTime != nil {
		card = card.AddItem("저녁 시간", r.DinnerTime.String())
	}
	card = card.AddItem("분류", r.EstablishmentType.KoreanName())
	card = card.AddButton(kakao.MessageButton("메뉴 보기", "학식 "+r.Name))
	if r.Location != nil {
		if url := r.Location.MapLink(); url != "" {
			card = card.AddButton(kakao.WebLinkButton("식당 위치 지도 보기", url))
		}
	}
	return card
}

// registerPreview builds the "식단 미리보기" response shown while a menu is
// being edited, with the registration quick replies attached.
func registerPreview(lunch, dinner kakao.Carousel, restaurantName string) *kakao.Response {
	resp := kakao.NewResponse().
		AddComponent(kakao.SimpleText{Text: "식단 미리보기"}).
		AddComponent(lunch).
		AddComponent(dinner)
	for _, qr := range blocks.CafeteriaRegisterQuickReplies(restaurantName) {
		resp.AddQuickReply(qr)
	}
	return resp
}
