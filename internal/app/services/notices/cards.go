package notices

import (
	"fmt"

	"github.com/sandol-project/kakao-bot-service/internal/app/domain/notice"
	"github.com/sandol-project/kakao-bot-service/internal/kakao"
)

// listItem renders one notice as a list row: title, "작성자 | 날짜", link.
func listItem(n notice.Notice) kakao.ListItem {
	created := n.CreatedAt
	description := fmt.Sprintf(
		"%s | %d월 %d일 %d시 %d분",
		n.Author, int(created.Month()), created.Day(), created.Hour(), created.Minute(),
	)
	return kakao.ListItem{
		Title:       n.Title,
		Description: description,
		Link:        &kakao.Link{Web: n.URL},
	}
}

func header(isAuthor, dormitory bool, items []notice.Notice) string {
	switch {
	case isAuthor && len(items) > 0:
		return items[0].Author + " 공지사항"
	case dormitory:
		return "생활관 공지사항"
	default:
		return "공지사항"
	}
}

// NoticeComponent renders notices as a list card, or a carousel of list
// cards in chunks of four once they no longer fit a single card. An empty
// list yields a plain not-found bubble.
func NoticeComponent(items []notice.Notice, isAuthor, dormitory bool) kakao.Component {
	head := header(isAuthor, dormitory, items)
	if len(items) == 0 {
		return kakao.SimpleText{Text: head + "을 찾을 수 없습니다."}
	}

	if len(items) < kakao.ListCardMaxItems {
		card := kakao.ListCard{Header: kakao.ListHeader{Title: head}}
		for _, n := range items {
			card = card.AddItem(listItem(n))
		}
		return card
	}

	carousel := kakao.NewCarousel("listCard")
	for start := 0; start < len(items); start += kakao.CarouselListCardMaxItems {
		end := start + kakao.CarouselListCardMaxItems
		if end > len(items) {
			end = len(items)
		}
		card := kakao.ListCard{Header: kakao.ListHeader{Title: head}}
		for _, n := range items[start:end] {
			card = card.AddItem(listItem(n))
		}
		carousel = carousel.AddCard(card)
	}
	return carousel
}
