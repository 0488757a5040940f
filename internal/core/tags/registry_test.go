package tags

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Upsert(ctx context.Context, name string) (*Tag, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Tag), args.Error(1)
}

func (m *MockRepository) GetByName(ctx context.Context, name string) (*Tag, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Tag), args.Error(1)
}

func TestFindOrCreate_NormalizesName(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("Upsert", mock.Anything, "landscape photography").
		Return(&Tag{ID: 1, Name: "landscape photography"}, nil)

	registry := NewRegistry(mockRepo)

	tag, err := registry.FindOrCreate(context.Background(), "  #Landscape Photography ")
	require.NoError(t, err)
	assert.Equal(t, "landscape photography", tag.Name)

	mockRepo.AssertExpectations(t)
}

func TestFindOrCreate_EmptyName(t *testing.T) {
	mockRepo := new(MockRepository)
	registry := NewRegistry(mockRepo)

	_, err := registry.FindOrCreate(context.Background(), "   ")
	assert.Error(t, err)
	assert.True(t, IsInvalidTag(err), "expected InvalidTagError")

	mockRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestFindOrCreate_RepoFailure(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("Upsert", mock.Anything, "art").Return(nil, errors.New("connection refused"))

	registry := NewRegistry(mockRepo)

	_, err := registry.FindOrCreate(context.Background(), "art")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to resolve tag")
}

func TestFindOrCreateAll_DeduplicatesAfterNormalization(t *testing.T) {
	mockRepo := new(MockRepository)
	// "Art", "#art" and " ART " all collapse to one upsert.
	mockRepo.On("Upsert", mock.Anything, "art").Return(&Tag{ID: 1, Name: "art"}, nil).Once()
	mockRepo.On("Upsert", mock.Anything, "film").Return(&Tag{ID: 2, Name: "film"}, nil).Once()

	registry := NewRegistry(mockRepo)

	resolved, err := registry.FindOrCreateAll(context.Background(), []string{"Art", "#art", "film", " ART "})
	require.NoError(t, err)
	require.Len(t, resolved, 2)
	assert.Equal(t, "art", resolved[0].Name)
	assert.Equal(t, "film", resolved[1].Name)

	mockRepo.AssertExpectations(t)
}

func TestFindOrCreateAll_SkipsBlankEntries(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("Upsert", mock.Anything, "ocean").Return(&Tag{ID: 3, Name: "ocean"}, nil).Once()

	registry := NewRegistry(mockRepo)

	resolved, err := registry.FindOrCreateAll(context.Background(), []string{"", "  ", "ocean"})
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, "ocean", resolved[0].Name)
}

func TestFindOrCreateAll_Empty(t *testing.T) {
	mockRepo := new(MockRepository)
	registry := NewRegistry(mockRepo)

	resolved, err := registry.FindOrCreateAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, resolved)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "GoLang", "golang"},
		{"trims whitespace", "  studio ghibli  ", "studio ghibli"},
		{"strips leading hash", "#photography", "photography"},
		{"strips only one hash", "##double", "#double"},
		{"empty stays empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}
