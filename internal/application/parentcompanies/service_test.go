package parentcompanies

import (
	"context"
	"testing"

	"clientdir-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupService(t *testing.T) *Service {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.ParentCompany{}))
	return &Service{DB: db}
}

func TestCreate_DerivesCompanyCode(t *testing.T) {
	s := setupService(t)
	company, err := s.Create(context.Background(), CreateInput{
		DisplayName:    "Globex Holdings",
		RegisteredName: "Globex Holdings Pvt Ltd",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "GLO", company.CompanyCode)
	assert.NotEqual(t, uuid.Nil, company.ParentCompanyID)
}

func TestCreate_ExplicitCodeWins(t *testing.T) {
	s := setupService(t)
	company, err := s.Create(context.Background(), CreateInput{
		DisplayName:    "Globex Holdings",
		RegisteredName: "Globex Holdings Pvt Ltd",
		CompanyCode:    "GBX",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "GBX", company.CompanyCode)
}

func TestCreate_RequiresNames(t *testing.T) {
	s := setupService(t)
	_, err := s.Create(context.Background(), CreateInput{DisplayName: "  "}, nil)
	assert.Error(t, err)

	_, err = s.Create(context.Background(), CreateInput{DisplayName: "Globex"}, nil)
	assert.Error(t, err)
}

func TestCreate_RejectsLongCompanyCode(t *testing.T) {
	s := setupService(t)
	_, err := s.Create(context.Background(), CreateInput{
		DisplayName:    "Globex Holdings",
		RegisteredName: "Globex Holdings Pvt Ltd",
		CompanyCode:    "TOOLONGCODE",
	}, nil)
	assert.Error(t, err)
}

func TestCreate_UnknownParentRejected(t *testing.T) {
	s := setupService(t)
	missing := uuid.New()
	_, err := s.Create(context.Background(), CreateInput{
		DisplayName:    "Branch Co",
		RegisteredName: "Branch Co Ltd",
		ParentID:       &missing,
	}, nil)
	assert.Error(t, err)
}

func TestList_ActiveOrderedByName(t *testing.T) {
	s := setupService(t)
	for _, name := range []string{"Zeta Corp", "Alpha Corp", "Mid Corp"} {
		_, err := s.Create(context.Background(), CreateInput{
			DisplayName:    name,
			RegisteredName: name + " Ltd",
		}, nil)
		require.NoError(t, err)
	}
	require.NoError(t, s.DB.Model(&domain.ParentCompany{}).
		Where("display_name = ?", "Mid Corp").
		Update("is_active", false).Error)

	companies, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, companies, 2)
	assert.Equal(t, "Alpha Corp", companies[0].DisplayName)
	assert.Equal(t, "Zeta Corp", companies[1].DisplayName)
}

func TestGet_NotFound(t *testing.T) {
	s := setupService(t)
	_, err := s.Get(context.Background(), uuid.New())
	assert.Error(t, err)
}
