package clients

import (
	"context"
	"errors"
	"testing"

	"clientdir-backend/internal/application/associations"
	"clientdir-backend/internal/domain"
	"clientdir-backend/internal/pkg/apperr"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupClientsTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.ClientAccount{},
		&domain.ParentCompany{},
		&domain.ParentCompanyAssociation{},
		&domain.Industry{},
		&domain.EntityType{},
	))
	svc := &Service{
		DB:           db,
		Associations: &associations.Service{DB: db},
	}
	return svc, db
}

func seedParentCompany(t *testing.T, db *gorm.DB) uuid.UUID {
	pc := domain.ParentCompany{
		DisplayName:    "Acme Holdings",
		RegisteredName: "Acme Holdings Pvt Ltd",
		CompanyCode:    "ACH",
		IsActive:       true,
	}
	require.NoError(t, db.Create(&pc).Error)
	return pc.ParentCompanyID
}

func validInput(parentID uuid.UUID) SaveInput {
	return SaveInput{
		DisplayName:     "Acme & Sons, LLC",
		RegisteredName:  "Acme and Sons LLC",
		ParentCompanyID: &parentID,
	}
}

func TestCreate_EndToEnd(t *testing.T) {
	svc, db := setupClientsTest(t)
	parentID := seedParentCompany(t, db)

	account, err := svc.Create(context.Background(), validInput(parentID), nil)
	require.NoError(t, err)

	assert.Equal(t, "acme-sons-llc", account.Slug)
	assert.Equal(t, "ACM", account.ClientCode)
	assert.Equal(t, "BRANCH", account.LocationType)
	assert.Equal(t, "PROSPECT", account.RelationshipType)
	assert.True(t, account.IsActive)

	var assoc domain.ParentCompanyAssociation
	require.NoError(t, db.Where("client_account_id = ?", account.ClientAccountID).First(&assoc).Error)
	assert.Equal(t, parentID, assoc.ParentCompanyID)
}

func TestCreate_RequiresParentCompany(t *testing.T) {
	svc, db := setupClientsTest(t)
	in := SaveInput{DisplayName: "Acme Inc", RegisteredName: "Acme Inc"}

	_, err := svc.Create(context.Background(), in, nil)
	assert.True(t, apperr.IsValidation(err))

	// No partial creation: validation happens before any persistence call.
	var count int64
	require.NoError(t, db.Model(&domain.ClientAccount{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestCreate_RequiresDisplayName(t *testing.T) {
	svc, db := setupClientsTest(t)
	parentID := seedParentCompany(t, db)
	in := validInput(parentID)
	in.DisplayName = "  "

	_, err := svc.Create(context.Background(), in, nil)
	assert.True(t, apperr.IsValidation(err))
}

func TestCreate_RejectsBadWebsite(t *testing.T) {
	svc, db := setupClientsTest(t)
	parentID := seedParentCompany(t, db)
	in := validInput(parentID)
	bad := "not a url"
	in.Website = &bad

	_, err := svc.Create(context.Background(), in, nil)
	assert.True(t, apperr.IsValidation(err))
}

func TestCreate_SlugCollisionGetsSuffix(t *testing.T) {
	svc, db := setupClientsTest(t)
	parentID := seedParentCompany(t, db)

	first, err := svc.Create(context.Background(), validInput(parentID), nil)
	require.NoError(t, err)
	assert.Equal(t, "acme-sons-llc", first.Slug)

	second, err := svc.Create(context.Background(), validInput(parentID), nil)
	require.NoError(t, err)
	assert.NotEqual(t, first.Slug, second.Slug)
	assert.Contains(t, second.Slug, "acme-sons-llc-")
}

func TestCreate_RejectsLongClientCode(t *testing.T) {
	svc, db := setupClientsTest(t)
	parentID := seedParentCompany(t, db)
	in := validInput(parentID)
	in.ClientCode = "TOOLONGCODE"

	_, err := svc.Create(context.Background(), in, nil)
	assert.True(t, apperr.IsValidation(err))
}

// TestWriteWithSlugRetry_ConcurrentWriterWinsFirstRace simulates a writer
// committing the slug between the availability check and the insert: the
// unique index fires, the slug is reallocated with a suffix and the retried
// insert lands.
func TestWriteWithSlugRetry_ConcurrentWriterWinsFirstRace(t *testing.T) {
	svc, db := setupClientsTest(t)

	competitor := domain.ClientAccount{
		DisplayName:    "Race Co",
		RegisteredName: "Race Co Ltd",
		ClientCode:     "RAC",
		Slug:           "race-co",
	}
	require.NoError(t, db.Create(&competitor).Error)

	// Stale allocation: the availability check ran before the competitor
	// committed, so this row still carries the base slug.
	stale := &domain.ClientAccount{
		DisplayName:    "Race Co",
		RegisteredName: "Race Co Ltd",
		ClientCode:     "RAC",
		Slug:           "race-co",
	}
	err := svc.writeWithSlugRetry(context.Background(), stale, uuid.Nil, "client create", func() error {
		return db.Create(stale).Error
	})
	require.NoError(t, err)
	assert.NotEqual(t, "race-co", stale.Slug)
	assert.Contains(t, stale.Slug, "race-co-")

	var count int64
	require.NoError(t, db.Model(&domain.ClientAccount{}).Where("slug LIKE ?", "race-co%").Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

// TestWriteWithSlugRetry_NonConflictStaysDependency keeps ordinary store
// failures out of the retry path.
func TestWriteWithSlugRetry_NonConflictStaysDependency(t *testing.T) {
	svc, _ := setupClientsTest(t)

	account := &domain.ClientAccount{DisplayName: "Broken Co", Slug: "broken-co"}
	err := svc.writeWithSlugRetry(context.Background(), account, uuid.Nil, "client create", func() error {
		return errors.New("connection refused")
	})
	assert.True(t, apperr.IsDependency(err))
	assert.False(t, apperr.IsConflict(err))
}

func TestIsSlugConflict(t *testing.T) {
	assert.True(t, isSlugConflict(gorm.ErrDuplicatedKey))
	assert.True(t, isSlugConflict(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isSlugConflict(errors.New("UNIQUE constraint failed: client_accounts.slug")))
	assert.False(t, isSlugConflict(&pgconn.PgError{Code: "40001"}))
	assert.False(t, isSlugConflict(errors.New("connection refused")))
}

func TestUpdate_SlugStableOnNoOpRename(t *testing.T) {
	svc, db := setupClientsTest(t)
	parentID := seedParentCompany(t, db)

	account, err := svc.Create(context.Background(), validInput(parentID), nil)
	require.NoError(t, err)

	in := validInput(parentID)
	in.IsClient = true
	updated, err := svc.Update(context.Background(), account.ClientAccountID, in, nil)
	require.NoError(t, err)
	assert.Equal(t, account.Slug, updated.Slug)
	assert.True(t, updated.IsClient)
}

func TestUpdate_RenameReallocatesSlug(t *testing.T) {
	svc, db := setupClientsTest(t)
	parentID := seedParentCompany(t, db)

	account, err := svc.Create(context.Background(), validInput(parentID), nil)
	require.NoError(t, err)

	in := validInput(parentID)
	in.DisplayName = "Acme Global"
	updated, err := svc.Update(context.Background(), account.ClientAccountID, in, nil)
	require.NoError(t, err)
	assert.Equal(t, "acme-global", updated.Slug)
}

func TestUpdate_ReplacesAssociation(t *testing.T) {
	svc, db := setupClientsTest(t)
	firstParent := seedParentCompany(t, db)
	secondParent := seedParentCompany(t, db)

	account, err := svc.Create(context.Background(), validInput(firstParent), nil)
	require.NoError(t, err)

	in := validInput(secondParent)
	_, err = svc.Update(context.Background(), account.ClientAccountID, in, nil)
	require.NoError(t, err)

	got, err := svc.Associations.Get(context.Background(), account.ClientAccountID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, secondParent, *got)

	var count int64
	require.NoError(t, db.Model(&domain.ParentCompanyAssociation{}).
		Where("client_account_id = ?", account.ClientAccountID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreate_PartialFailureThenRetry(t *testing.T) {
	svc, db := setupClientsTest(t)
	parentID := seedParentCompany(t, db)

	// Break only the association table so the account write lands first.
	require.NoError(t, db.Migrator().DropTable(&domain.ParentCompanyAssociation{}))

	account, err := svc.Create(context.Background(), validInput(parentID), nil)
	require.Error(t, err)
	pf, ok := apperr.AsPartialFailure(err)
	require.True(t, ok)
	require.NotNil(t, account)
	assert.Equal(t, account.ClientAccountID, pf.ClientAccountID)

	var count int64
	require.NoError(t, db.Model(&domain.ClientAccount{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// Association-only retry completes the save without redoing the form.
	require.NoError(t, db.AutoMigrate(&domain.ParentCompanyAssociation{}))
	require.NoError(t, svc.RetryAssociation(context.Background(), pf.ClientAccountID, &parentID))

	got, err := svc.Associations.Get(context.Background(), pf.ClientAccountID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, parentID, *got)
}

func TestDeactivate(t *testing.T) {
	svc, db := setupClientsTest(t)
	parentID := seedParentCompany(t, db)

	account, err := svc.Create(context.Background(), validInput(parentID), nil)
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(context.Background(), account.ClientAccountID, nil))

	var reloaded domain.ClientAccount
	require.NoError(t, db.Where("client_account_id = ?", account.ClientAccountID).First(&reloaded).Error)
	assert.False(t, reloaded.IsActive)
}

func TestDeactivate_NotFound(t *testing.T) {
	svc, _ := setupClientsTest(t)
	err := svc.Deactivate(context.Background(), uuid.New(), nil)
	assert.True(t, apperr.IsNotFound(err))
}

func TestUpdate_RejectsHierarchyCycle(t *testing.T) {
	svc, db := setupClientsTest(t)
	parentID := seedParentCompany(t, db)

	a, err := svc.Create(context.Background(), validInput(parentID), nil)
	require.NoError(t, err)

	inB := validInput(parentID)
	inB.DisplayName = "Branch B"
	inB.ParentClientAccountID = &a.ClientAccountID
	b, err := svc.Create(context.Background(), inB, nil)
	require.NoError(t, err)

	// A under B while B is under A would close the loop.
	inA := validInput(parentID)
	inA.ParentClientAccountID = &b.ClientAccountID
	_, err = svc.Update(context.Background(), a.ClientAccountID, inA, nil)
	assert.True(t, apperr.IsValidation(err))
}

func TestUpdate_RejectsSelfReference(t *testing.T) {
	svc, db := setupClientsTest(t)
	parentID := seedParentCompany(t, db)

	a, err := svc.Create(context.Background(), validInput(parentID), nil)
	require.NoError(t, err)

	in := validInput(parentID)
	in.ParentClientAccountID = &a.ClientAccountID
	_, err = svc.Update(context.Background(), a.ClientAccountID, in, nil)
	assert.True(t, apperr.IsValidation(err))
}

func TestGet_IncludesParentCompany(t *testing.T) {
	svc, db := setupClientsTest(t)
	parentID := seedParentCompany(t, db)

	account, err := svc.Create(context.Background(), validInput(parentID), nil)
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), account.ClientAccountID)
	require.NoError(t, err)
	require.NotNil(t, got.ParentCompanyID)
	assert.Equal(t, parentID, *got.ParentCompanyID)
}

func TestExportRows_JoinsNames(t *testing.T) {
	svc, db := setupClientsTest(t)
	parentID := seedParentCompany(t, db)

	industry := domain.Industry{IndustryName: "Manufacturing"}
	require.NoError(t, db.Create(&industry).Error)

	in := validInput(parentID)
	in.IndustryID = &industry.IndustryID
	_, err := svc.Create(context.Background(), in, nil)
	require.NoError(t, err)

	rows, err := svc.ExportRows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].IndustryName)
	assert.Equal(t, "Manufacturing", *rows[0].IndustryName)
	require.NotNil(t, rows[0].ParentCompanyName)
	assert.Equal(t, "Acme Holdings", *rows[0].ParentCompanyName)
}
