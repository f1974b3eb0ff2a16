package api_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createRecipeWithIngredients(env *testEnv, token, title string, ingredients ...string) string {
	env.t.Helper()
	body := gin.H{
		"title":        title,
		"time_minutes": 5,
		"price":        5.00,
	}
	var list []gin.H
	for _, name := range ingredients {
		list = append(list, gin.H{"name": name})
	}
	body["ingredients"] = list

	w := env.do(http.MethodPost, "/recipes", token, body)
	require.Equal(env.t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		ID string `json:"id"`
	}
	env.decode(w, &resp)
	return resp.ID
}

func TestListIngredients(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin("alice@example.com")

	createRecipeWithIngredients(env, token, "Omelette", "eggs", "milk")

	w := env.do(http.MethodGet, "/ingredients", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var ingredients []entityPayload
	env.decode(w, &ingredients)
	require.Len(t, ingredients, 2)
	assert.Equal(t, "milk", ingredients[0].Name, "ingredients come back name descending")
	assert.Equal(t, "eggs", ingredients[1].Name)
}

func TestListIngredientsAssignedOnlyQuery(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin("alice@example.com")

	id := createRecipeWithIngredients(env, token, "Omelette", "eggs", "milk")

	w := env.do(http.MethodPatch, "/recipes/"+id, token, gin.H{
		"ingredients": []gin.H{{"name": "eggs"}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(http.MethodGet, "/ingredients?assigned_only=true", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ingredients []entityPayload
	env.decode(w, &ingredients)
	require.Len(t, ingredients, 1)
	assert.Equal(t, "eggs", ingredients[0].Name)
}

func TestRenameIngredientEndpoint(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin("alice@example.com")

	createRecipeWithIngredients(env, token, "Cake", "suger")

	w := env.do(http.MethodGet, "/ingredients", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ingredients []entityPayload
	env.decode(w, &ingredients)
	require.Len(t, ingredients, 1)

	w = env.do(http.MethodPatch, "/ingredients/"+ingredients[0].ID, token, gin.H{"name": "sugar"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var renamed entityPayload
	env.decode(w, &renamed)
	assert.Equal(t, "sugar", renamed.Name)
}

func TestDeleteIngredientEndpoint(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin("alice@example.com")

	id := createRecipeWithIngredients(env, token, "Omelette", "eggs")

	w := env.do(http.MethodGet, "/ingredients", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ingredients []entityPayload
	env.decode(w, &ingredients)
	require.Len(t, ingredients, 1)

	w = env.do(http.MethodDelete, "/ingredients/"+ingredients[0].ID, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(http.MethodGet, "/recipes/"+id, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var recipe recipePayload
	env.decode(w, &recipe)
	assert.Empty(t, recipe.Ingredients)
}

func TestIngredientsScopedToUser(t *testing.T) {
	env := newTestEnv(t)
	alice := env.registerAndLogin("alice@example.com")
	bob := env.registerAndLogin("bob@example.com")

	createRecipeWithIngredients(env, alice, "Omelette", "eggs")

	w := env.do(http.MethodGet, "/ingredients", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ingredients []entityPayload
	env.decode(w, &ingredients)
	assert.Empty(t, ingredients)
}
