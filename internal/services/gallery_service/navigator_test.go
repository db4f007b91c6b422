package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"gallerypress/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func navigatorUnderTest(t *testing.T, bases []string, redirectEnabled bool) (*Navigator, *models.Gallery) {
	t.Helper()

	svc, m := newTestService(false)
	gallery := testGallery()

	collection := models.BuildItemCollection(testItems(gallery.ID, bases...))
	m.cache.On("Get", context.Background(), gallery.ID).Return(collection, nil).Once()

	return NewNavigator(slog.Default(), svc, redirectEnabled), gallery
}

func TestNavigator_Resolve_FrontPage(t *testing.T) {
	nav, gallery := navigatorUnderTest(t, []string{"a", "b", "c"}, false)

	res, err := nav.Resolve(context.Background(), gallery, "")

	require.NoError(t, err)
	assert.Equal(t, "a", res.Item.UniqueSlug())
	assert.Equal(t, 1, res.Position)
	assert.Nil(t, res.Previous)
	require.NotNil(t, res.Next)
	assert.Equal(t, "b", res.Next.UniqueSlug())
	assert.Equal(t, 3, res.Count)
	assert.Equal(t, "3 objects total", res.CountStr)
	assert.False(t, res.OnItemPage)
	assert.Len(t, res.ItemList, 3)
}

func TestNavigator_Resolve_MiddleItem(t *testing.T) {
	nav, gallery := navigatorUnderTest(t, []string{"a", "b", "c"}, false)

	res, err := nav.Resolve(context.Background(), gallery, "b")

	require.NoError(t, err)
	assert.Equal(t, "b", res.Item.UniqueSlug())
	assert.Equal(t, 2, res.Position)
	require.NotNil(t, res.Previous)
	assert.Equal(t, "a", res.Previous.UniqueSlug())
	require.NotNil(t, res.Next)
	assert.Equal(t, "c", res.Next.UniqueSlug())
	assert.True(t, res.OnItemPage)
}

func TestNavigator_Resolve_LastItem(t *testing.T) {
	nav, gallery := navigatorUnderTest(t, []string{"a", "b", "c"}, false)

	res, err := nav.Resolve(context.Background(), gallery, "c")

	require.NoError(t, err)
	assert.Equal(t, 3, res.Position)
	require.NotNil(t, res.Previous)
	assert.Equal(t, "b", res.Previous.UniqueSlug())
	assert.Nil(t, res.Next)
}

func TestNavigator_Resolve_SingleItemCountStr(t *testing.T) {
	nav, gallery := navigatorUnderTest(t, []string{"only"}, false)

	res, err := nav.Resolve(context.Background(), gallery, "")

	require.NoError(t, err)
	assert.Equal(t, "1 object total", res.CountStr)
	assert.Nil(t, res.Next)
}

func TestNavigator_Resolve_EmptyGallery(t *testing.T) {
	nav, gallery := navigatorUnderTest(t, nil, false)

	_, err := nav.Resolve(context.Background(), gallery, "")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNavigator_Resolve_UnknownSlug(t *testing.T) {
	nav, gallery := navigatorUnderTest(t, []string{"a", "b"}, false)

	_, err := nav.Resolve(context.Background(), gallery, "zzz")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNavigator_Resolve_UnknownSlugRedirects(t *testing.T) {
	nav, gallery := navigatorUnderTest(t, []string{"a", "b"}, true)

	_, err := nav.Resolve(context.Background(), gallery, "zzz")

	var redirect *RedirectError
	require.True(t, errors.As(err, &redirect))
	assert.Equal(t, gallery.AbsoluteURL(), redirect.URL)
	assert.True(t, redirect.Permanent)
}

func TestNavigator_Resolve_CollisionSuffixAddressable(t *testing.T) {
	nav, gallery := navigatorUnderTest(t, []string{"a", "a", "a"}, false)

	res, err := nav.Resolve(context.Background(), gallery, "a2")

	require.NoError(t, err)
	assert.Equal(t, 2, res.Position)
	assert.Equal(t, "a", res.Previous.UniqueSlug())
	assert.Equal(t, "a3", res.Next.UniqueSlug())
}
