package meals

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sandol-project/kakao-bot-service/internal/app/domain/meal"
)

// listEnvelope is the collection wrapper the meal service puts around
// list responses.
type listEnvelope[T any] struct {
	Data []T `json:"data"`
}

// FetchLatestMeals returns the most recent menu per restaurant and slot.
func (s *Service) FetchLatestMeals(ctx context.Context, userID int64) ([]meal.Meal, error) {
	var out listEnvelope[meal.Meal]
	if err := s.client.GetJSON(ctx, userID, "/meals/latest", nil, &out); err != nil {
		return nil, fmt.Errorf("fetch latest meals: %w", err)
	}
	return out.Data, nil
}

// FetchLatestMealsForRestaurant returns the most recent menus of a single
// restaurant.
func (s *Service) FetchLatestMealsForRestaurant(ctx context.Context, userID, restaurantID int64) ([]meal.Meal, error) {
	var out listEnvelope[meal.Meal]
	path := fmt.Sprintf("/meals/restaurants/%d/latest", restaurantID)
	if err := s.client.GetJSON(ctx, userID, path, nil, &out); err != nil {
		return nil, fmt.Errorf("fetch restaurant meals: %w", err)
	}
	return out.Data, nil
}

// FetchRestaurantByName resolves a restaurant by its display name. Returns
// nil when no restaurant matches.
func (s *Service) FetchRestaurantByName(ctx context.Context, userID int64, name string) (*meal.Restaurant, error) {
	var out listEnvelope[meal.Restaurant]
	query := url.Values{"name": []string{name}}
	if err := s.client.GetJSON(ctx, userID, "/restaurants", query, &out); err != nil {
		return nil, fmt.Errorf("fetch restaurant %q: %w", name, err)
	}
	for i := range out.Data {
		if out.Data[i].Name == name {
			return &out.Data[i], nil
		}
	}
	return nil, nil
}

// FetchMyRestaurants returns the restaurants the calling user manages.
func (s *Service) FetchMyRestaurants(ctx context.Context, userID int64) ([]meal.Restaurant, error) {
	var out listEnvelope[meal.Restaurant]
	if err := s.client.GetJSON(ctx, userID, "/restaurants/me", nil, &out); err != nil {
		return nil, fmt.Errorf("fetch my restaurants: %w", err)
	}
	return out.Data, nil
}

// PostMeal registers a menu for a restaurant and slot.
func (s *Service) PostMeal(ctx context.Context, userID, restaurantID int64, mealType meal.Type, menu []string) error {
	if menu == nil {
		menu = []string{}
	}
	body := map[string]interface{}{
		"meal_type": mealType,
		"menu":      menu,
	}
	path := fmt.Sprintf("/restaurants/%d/meals", restaurantID)
	if err := s.client.PostJSON(ctx, userID, path, body, nil); err != nil {
		return fmt.Errorf("post %s meal: %w", mealType, err)
	}
	return nil
}
