package classroom

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/sandol-project/kakao-bot-service/internal/app/blocks"
	"github.com/sandol-project/kakao-bot-service/internal/app/domain/classroom"
	"github.com/sandol-project/kakao-bot-service/internal/kakao"
	"github.com/sandol-project/kakao-bot-service/pkg/logger"
)

// roomPattern splits a room name into floor digits and a two-digit room
// number, e.g. "103호" → floor 1.
var roomPattern = regexp.MustCompile(`^(\d+)(\d{2})호$`)

func parseFloor(room string) (int, bool) {
	m := roomPattern.FindStringSubmatch(room)
	if m == nil {
		return 0, false
	}
	floor, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return floor, true
}

// buildingCard renders one building's free rooms grouped by floor. Returns
// false when the building has no parseable rooms to show.
func buildingCard(b classroom.BuildingAvailability, log *logger.Logger) (kakao.ItemCard, bool) {
	byFloor := map[int][]string{}
	for _, room := range b.Rooms {
		floor, ok := parseFloor(room)
		if !ok {
			log.WithField("room", room).Warn("skipping unparseable room name")
			continue
		}
		byFloor[floor] = append(byFloor[floor], room)
	}
	if len(byFloor) == 0 {
		return kakao.ItemCard{}, false
	}

	floors := make([]int, 0, len(byFloor))
	for floor := range byFloor {
		floors = append(floors, floor)
	}
	sort.Ints(floors)

	card := kakao.ItemCard{Head: &kakao.ListHeader{Title: b.Building}}
	for _, floor := range floors {
		rooms := byFloor[floor]
		description := rooms[0]
		if len(rooms) > 1 {
			description = fmt.Sprintf("%s외 %d개", rooms[0], len(rooms)-1)
		}
		card = card.AddItem(fmt.Sprintf("%d층", floor), description)
	}
	card = card.AddButton(kakao.BlockButton("자세히 보기", blocks.ClassroomDetail, nil))
	return card, true
}

// carouselMaxCards is the Open Builder cap on cards per carousel.
const carouselMaxCards = 10

// AvailabilityComponents renders the building list: one card alone, a
// carousel when several buildings fit one, several carousels beyond ten.
// The 미래 building sorts last; the rest alphabetically.
func AvailabilityComponents(available []classroom.BuildingAvailability, log *logger.Logger) []kakao.Component {
	if log == nil {
		log = logger.NewDefault("classroom")
	}

	sorted := append([]classroom.BuildingAvailability(nil), available...)
	sort.SliceStable(sorted, func(i, j int) bool {
		iMirae := sorted[i].Building == "미래"
		jMirae := sorted[j].Building == "미래"
		if iMirae != jMirae {
			return jMirae
		}
		return sorted[i].Building < sorted[j].Building
	})

	var cards []kakao.ItemCard
	for _, b := range sorted {
		if card, ok := buildingCard(b, log); ok {
			cards = append(cards, card)
		}
	}
	if len(cards) == 0 {
		return []kakao.Component{kakao.SimpleText{Text: "빈 강의실 정보가 없습니다."}}
	}
	if len(cards) == 1 {
		return []kakao.Component{cards[0]}
	}

	var components []kakao.Component
	for start := 0; start < len(cards); start += carouselMaxCards {
		end := start + carouselMaxCards
		if end > len(cards) {
			end = len(cards)
		}
		carousel := kakao.NewCarousel("itemCard")
		for _, card := range cards[start:end] {
			carousel = carousel.AddCard(card)
		}
		components = append(components, carousel)
	}
	return components
}
