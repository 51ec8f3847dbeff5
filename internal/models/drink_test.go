package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipe_UnmarshalJSON(t *testing.T) {
	t.Run("array", func(t *testing.T) {
		var r Recipe
		require.NoError(t, json.Unmarshal([]byte(`[{"color":"blue","name":"water","parts":1},{"color":"brown","name":"coffee","parts":3}]`), &r))
		assert.Equal(t, Recipe{{Color: "blue", Name: "water", Parts: 1}, {Color: "brown", Name: "coffee", Parts: 3}}, r)
	})

	t.Run("single object", func(t *testing.T) {
		var r Recipe
		require.NoError(t, json.Unmarshal([]byte(` {"color":"blue","name":"water","parts":1}`), &r))
		assert.Equal(t, Recipe{{Color: "blue", Name: "water", Parts: 1}}, r)
	})

	t.Run("null", func(t *testing.T) {
		r := Recipe{{Color: "x"}}
		require.NoError(t, json.Unmarshal([]byte(`null`), &r))
		assert.Nil(t, r)
	})

	t.Run("wrong type", func(t *testing.T) {
		var r Recipe
		require.Error(t, json.Unmarshal([]byte(`"water"`), &r))
	})
}

func TestDrink_Representations(t *testing.T) {
	d := Drink{ID: 7, Title: "water", Recipe: Recipe{{Color: "blue", Name: "water", Parts: 1}}}

	b, err := json.Marshal(d.Short())
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7,"title":"water","recipe":[{"color":"blue","parts":1}]}`, string(b))

	b, err = json.Marshal(d.Long())
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7,"title":"water","recipe":[{"color":"blue","name":"water","parts":1}]}`, string(b))
}

func TestDrink_EmptyRecipeRendersArray(t *testing.T) {
	b, err := json.Marshal(Drink{ID: 1, Title: "air"}.Short())
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"title":"air","recipe":[]}`, string(b))
}
