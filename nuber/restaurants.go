package nuber

import (
	"context"

	"github.com/vvakame/typeddoc/client"
	"github.com/vvakame/typeddoc/gql"
)

var restaurantsPageQuery = gql.Typed[gql.RestaurantsPageQuery, gql.RestaurantsPageQueryVariables](`
  query RestaurantsPage($restaurantsInput: RestaurantsInput!) {
    allCategories {
      ok
      error
      categories {
        id
        name
        coverImg
        slug
        restaurantCount
      }
    }
    restaurants(input: $restaurantsInput) {
      ok
      error
      totalPages
      totalResults
      results {
        id
        name
        coverImg
        category {
          name
        }
        address
        isPromoted
      }
    }
  }
`)

// RestaurantsPage returns every category and one page of restaurants. Pages
// start at 1.
func (s *Service) RestaurantsPage(ctx context.Context, page int) (*gql.RestaurantsPageQuery, error) {
	if page < 1 {
		page = 1
	}

	result, err := client.Do(s.session(ctx), s.client, restaurantsPageQuery, gql.RestaurantsPageQueryVariables{
		RestaurantsInput: gql.RestaurantsInput{Page: &page},
	})
	if err != nil {
		return result, err
	}
	if err := apiError("allCategories", result.AllCategories.Ok, result.AllCategories.Error); err != nil {
		return result, err
	}
	if err := apiError("restaurants", result.Restaurants.Ok, result.Restaurants.Error); err != nil {
		return result, err
	}

	return result, nil
}
