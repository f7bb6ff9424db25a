// Package meals implements the cafeteria skill: menu viewing, restaurant
// detail, and the menu registration flow backed by the meal service.
package meals

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sandol-project/kakao-bot-service/internal/app/domain/meal"
	"github.com/sandol-project/kakao-bot-service/internal/kakao"
	"github.com/sandol-project/kakao-bot-service/internal/upstream"
	"github.com/sandol-project/kakao-bot-service/pkg/logger"
)

// Service answers the cafeteria skill blocks.
type Service struct {
	client *upstream.Client
	loc    *time.Location
	now    func() time.Time
	log    *logger.Logger
}

// New constructs the meal service. loc is the campus timezone used for
// the freshness cutoff and card timestamps.
func New(client *upstream.Client, loc *time.Location, log *logger.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.NewDefault("meals")
	}
	return &Service{
		client: client,
		loc:    loc,
		now:    time.Now,
		log:    log,
	}
}

func contextNameFor(t meal.Type) string {
	if t == meal.Dinner {
		return DinnerMenuContext
	}
	return LunchMenuContext
}

func toCard(m meal.Meal) meal.Card {
	return meal.Card{
		RestaurantName: m.RestaurantName,
		Type:           m.Type,
		Menu:           m.Menu,
		UpdatedAt:      m.UpdatedAt,
	}
}

// freshnessCutoff is yesterday 19:00 in the campus timezone. Menus
// updated after it are for today's service and sort first.
func (s *Service) freshnessCutoff() time.Time {
	yesterday := s.now().In(s.loc).AddDate(0, 0, -1)
	return time.Date(
		yesterday.Year(), yesterday.Month(), yesterday.Day(),
		19, 0, 0, 0, s.loc,
	)
}

// sortByFreshness orders meals so that menus updated after the cutoff come
// first, each group ascending by update time.
func (s *Service) sortByFreshness(meals []meal.Meal) []meal.Meal {
	cutoff := s.freshnessCutoff()
	var fresh, stale []meal.Meal
	for _, m := range meals {
		if m.UpdatedAt.Before(cutoff) {
			stale = append(stale, m)
		} else {
			fresh = append(fresh, m)
		}
	}
	sort.SliceStable(fresh, func(i, j int) bool { return fresh[i].UpdatedAt.Before(fresh[j].UpdatedAt) })
	sort.SliceStable(stale, func(i, j int) bool { return stale[i].UpdatedAt.Before(stale[j].UpdatedAt) })
	return append(fresh, stale...)
}

// View answers the "학식" block: lunch and dinner carousels, freshest
// restaurants first, optionally filtered to one cafeteria.
func (s *Service) View(ctx context.Context, p *kakao.Payload, userID int64) (*kakao.Response, error) {
	target := p.Param("Cafeteria")

	allMeals, err := s.FetchLatestMeals(ctx, userID)
	if err != nil {
		return nil, err
	}

	meals := allMeals
	if target != "" {
		filtered := make([]meal.Meal, 0, len(allMeals))
		for _, m := range allMeals {
			if m.RestaurantName == target {
				filtered = append(filtered, m)
			}
		}
		meals = filtered
	}

	var lunch, dinner []meal.Card
	for _, m := range s.sortByFreshness(meals) {
		switch m.Type {
		case meal.Lunch:
			lunch = append(lunch, toCard(m))
		case meal.Dinner:
			dinner = append(dinner, toCard(m))
		default:
			s.log.WithField("meal_type", string(m.Type)).Warn("unexpected meal type in latest meals")
		}
	}

	resp := kakao.NewResponse()
	if len(meals) == 0 {
		resp.AddComponent(kakao.SimpleText{Text: noMenuMessage})
	} else {
		resp.AddComponent(MenuCarousel(lunch))
		resp.AddComponent(MenuCarousel(dinner))
	}

	if target != "" {
		resp.AddQuickReply(kakao.QuickReply{Label: "모두 보기", Action: "message", MessageText: "학식"})
	}
	seen := map[string]bool{target: true}
	for _, m := range allMeals {
		if seen[m.RestaurantName] {
			continue
		}
		seen[m.RestaurantName] = true
		resp.AddQuickReply(kakao.QuickReply{
			Label:       m.RestaurantName,
			Action:      "message",
			MessageText: "학식 " + m.RestaurantName,
		})
	}
	return resp, nil
}

// RestaurantInfo answers the "식당 정보" block reached from a menu card
// button.
func (s *Service) RestaurantInfo(ctx context.Context, p *kakao.Payload, userID int64) (*kakao.Response, error) {
	name := p.ClientExtraString("restaurant_name")
	if name == "" {
		return nil, errors.New("restaurant_name missing from client extra")
	}

	restaurant, err := s.FetchRestaurantByName(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	if restaurant == nil {
		s.log.WithField("restaurant", name).Warn("restaurant lookup failed")
		return kakao.Text("식당 정보를 찾을 수 없습니다."), nil
	}
	return kakao.NewResponse().AddComponent(RestaurantCard(*restaurant)), nil
}

// selectRestaurant picks the restaurant a registration request targets.
// When the payload names one via clientExtra it wins; a single managed
// restaurant is implicit; otherwise the second return value carries a
// chooser response to send back instead.
func (s *Service) selectRestaurant(ctx context.Context, p *kakao.Payload, userID int64) (*meal.Restaurant, *kakao.Response, error) {
	restaurants, err := s.FetchMyRestaurants(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	if name := p.ClientExtraString("restaurant_name"); name != "" {
		for i := range restaurants {
			if restaurants[i].Name == name {
				return &restaurants[i], nil, nil
			}
		}
	}
	if len(restaurants) == 1 {
		return &restaurants[0], nil, nil
	}
	if len(restaurants) == 0 {
		return nil, nil, kakao.NewError("등록된 식당이 없습니다. 식당 등록 후 이용해주세요.")
	}

	resp := kakao.NewResponse().AddComponent(kakao.TextCard{
		Title:       "식당 선택",
		Description: "식당을 선택하세요.",
	})
	for _, r := range restaurants {
		resp.AddQuickReply(kakao.QuickReply{
			Label:   r.Name,
			Action:  "block",
			BlockID: p.Intent.ID,
			Extra:   map[string]interface{}{"restaurant_name": r.Name},
		})
	}
	return nil, resp, nil
}

// Register answers the 중식/석식 등록 blocks: splits the uttered menu,
// merges it into the pending context for the slot, and replies with a
// preview of both slots.
func (s *Service) Register(ctx context.Context, p *kakao.Payload, userID int64, mealType meal.Type) (*kakao.Response, error) {
	if mealType != meal.Lunch && mealType != meal.Dinner {
		return nil, fmt.Errorf("unsupported meal type %q", mealType)
	}

	restaurant, chooser, err := s.selectRestaurant(ctx, p, userID)
	if err != nil {
		return nil, err
	}
	if chooser != nil {
		return chooser, nil
	}

	menuOrigin := p.ParamOrigin("menu")
	if menuOrigin == "" {
		menuOrigin = p.Param("menu")
	}
	if menuOrigin == "" {
		return kakao.Text("메뉴를 입력해주세요."), nil
	}

	contexts := append([]kakao.Context(nil), p.Contexts...)
	merged := append(
		ExtractMenu(contexts, contextNameFor(mealType), restaurant.Name),
		SplitMenuString(menuOrigin)...,
	)
	contexts = SaveMenu(contexts, contextNameFor(mealType), restaurant.Name, merged)

	now := s.now().In(s.loc)
	lunch := meal.Card{
		RestaurantName: restaurant.Name,
		Type:           meal.Lunch,
		Menu:           ExtractMenu(contexts, LunchMenuContext, restaurant.Name),
		UpdatedAt:      now,
	}
	dinner := meal.Card{
		RestaurantName: restaurant.Name,
		Type:           meal.Dinner,
		Menu:           ExtractMenu(contexts, DinnerMenuContext, restaurant.Name),
		UpdatedAt:      now,
	}

	resp := registerPreview(
		MenuCarousel([]meal.Card{lunch}),
		MenuCarousel([]meal.Card{dinner}),
		restaurant.Name,
	)
	resp.SetContexts(contexts)
	return resp, nil
}

// Submit answers the "식단 확정" block: posts the pending lunch and dinner
// menus upstream and echoes the stored result.
func (s *Service) Submit(ctx context.Context, p *kakao.Payload, userID int64) (*kakao.Response, error) {
	restaurant, chooser, err := s.selectRestaurant(ctx, p, userID)
	if err != nil {
		return nil, err
	}
	if chooser != nil {
		return chooser, nil
	}

	lunchMenu := ExtractMenu(p.Contexts, LunchMenuContext, restaurant.Name)
	dinnerMenu := ExtractMenu(p.Contexts, DinnerMenuContext, restaurant.Name)

	var failures []string
	for _, slot := range []struct {
		mealType meal.Type
		menu     []string
	}{
		{meal.Lunch, lunchMenu},
		{meal.Dinner, dinnerMenu},
	} {
		if err := s.PostMeal(ctx, userID, restaurant.ID, slot.mealType, slot.menu); err != nil {
			s.log.WithError(err).
				WithField("restaurant", restaurant.Name).
				WithField("meal_type", string(slot.mealType)).
				Error("meal submit failed")
			var statusErr *upstream.StatusError
			if errors.As(err, &statusErr) {
				failures = append(failures, fmt.Sprintf("%s 등록 실패 (상태 코드: %d)", slot.mealType, statusErr.Status))
			} else {
				failures = append(failures, fmt.Sprintf("%s 등록 중 알 수 없는 오류 발생", slot.mealType))
			}
		}
	}
	if len(failures) > 0 {
		message := ""
		for _, f := range failures {
			message += f + "\n"
		}
		return kakao.Text(message + "확인 후 다시 시도해주세요."), nil
	}

	latest, err := s.FetchLatestMealsForRestaurant(ctx, userID, restaurant.ID)
	if err != nil {
		return nil, err
	}
	var lunch, dinner []meal.Card
	for _, m := range latest {
		switch m.Type {
		case meal.Lunch:
			lunch = append(lunch, toCard(m))
		case meal.Dinner:
			dinner = append(dinner, toCard(m))
		}
	}

	resp := kakao.NewResponse().
		AddComponent(kakao.SimpleText{Text: "식단 정보가 아래 내용으로 확정 등록되었습니다."}).
		AddComponent(MenuCarousel(lunch)).
		AddComponent(MenuCarousel(dinner))
	return resp, nil
}
