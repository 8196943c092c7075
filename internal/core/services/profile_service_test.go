package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/SscSPs/tour_ledger/internal/apperrors"
	"github.com/SscSPs/tour_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/tour_ledger/internal/core/ports/services"
	"github.com/SscSPs/tour_ledger/internal/core/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ProfileServiceTestSuite struct {
	suite.Suite
	mockProfileRepo *MockProfileRepository
	service         portssvc.ProfileSvcFacade
}

func (suite *ProfileServiceTestSuite) SetupTest() {
	suite.mockProfileRepo = new(MockProfileRepository)
	suite.service = services.NewProfileService(suite.mockProfileRepo)
}

func (suite *ProfileServiceTestSuite) TestResolveActor_UsesProfileRole() {
	ctx := context.Background()
	suite.mockProfileRepo.On("FindProfileByUserID", ctx, "u1").Return(&domain.Profile{UserID: "u1", Role: domain.RoleWorker}, nil).Once()

	actor, err := suite.service.ResolveActor(ctx, "u1", "")

	suite.Require().NoError(err)
	suite.Equal(domain.RoleWorker, actor.EffectiveRole)
}

func (suite *ProfileServiceTestSuite) TestResolveActor_MissingProfileIsVisitor() {
	ctx := context.Background()
	suite.mockProfileRepo.On("FindProfileByUserID", ctx, "u2").Return(nil, apperrors.ErrNotFound).Once()

	actor, err := suite.service.ResolveActor(ctx, "u2", "")

	suite.Require().NoError(err)
	suite.Equal(domain.RoleVisitor, actor.Role)
	suite.False(actor.Can(domain.PermEditConfirmations))
}

func (suite *ProfileServiceTestSuite) TestResolveActor_AdminViewAs() {
	ctx := context.Background()
	suite.mockProfileRepo.On("FindProfileByUserID", ctx, "admin").Return(&domain.Profile{UserID: "admin", Role: domain.RoleAdmin}, nil).Once()

	actor, err := suite.service.ResolveActor(ctx, "admin", "worker")

	suite.Require().NoError(err)
	suite.Equal(domain.RoleAdmin, actor.Role)
	suite.Equal(domain.RoleWorker, actor.EffectiveRole)
}

func (suite *ProfileServiceTestSuite) TestResolveActor_NonAdminViewAsForbidden() {
	ctx := context.Background()
	suite.mockProfileRepo.On("FindProfileByUserID", ctx, "u1").Return(&domain.Profile{UserID: "u1", Role: domain.RoleCoworker}, nil).Once()

	_, err := suite.service.ResolveActor(ctx, "u1", "admin")

	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *ProfileServiceTestSuite) TestResolveActor_NoUser() {
	_, err := suite.service.ResolveActor(context.Background(), "", "")

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockProfileRepo.AssertNotCalled(suite.T(), "FindProfileByUserID", mock.Anything, mock.Anything)
}

func (suite *ProfileServiceTestSuite) TestResolveActor_RepositoryError() {
	ctx := context.Background()
	suite.mockProfileRepo.On("FindProfileByUserID", ctx, "u1").Return(nil, errors.New("connection reset")).Once()

	_, err := suite.service.ResolveActor(ctx, "u1", "")

	suite.Require().Error(err)
	suite.NotErrorIs(err, apperrors.ErrForbidden)
}

func (suite *ProfileServiceTestSuite) TestGetProfile_ListsPermissions() {
	ctx := context.Background()
	actor := actorWithRole(domain.RoleCoworker)
	suite.mockProfileRepo.On("FindProfileByUserID", ctx, actor.UserID).Return(nil, apperrors.ErrNotFound).Once()

	resp, err := suite.service.GetProfile(ctx, actor)

	suite.Require().NoError(err)
	suite.Equal(actor.UserID, resp.Profile.UserID)
	suite.Contains(resp.Permissions, domain.PermViewFinance)
	suite.NotContains(resp.Permissions, domain.PermManageHolders)
}

func (suite *ProfileServiceTestSuite) TestGetCalendarPrefs_DefaultsWhenUnset() {
	ctx := context.Background()
	actor := actorWithRole(domain.RoleWorker)
	suite.mockProfileRepo.On("GetPreference", ctx, actor.UserID, domain.CalendarPrefsKey).Return(nil, nil).Once()

	prefs, err := suite.service.GetCalendarPrefs(ctx, actor)

	suite.Require().NoError(err)
	suite.Equal(domain.DefaultCalendarPrefs(), prefs)
}

func (suite *ProfileServiceTestSuite) TestSaveCalendarPrefs_NormalisesUnknownValues() {
	ctx := context.Background()
	actor := actorWithRole(domain.RoleWorker)
	suite.mockProfileRepo.On("SavePreference", ctx, actor.UserID, domain.CalendarPrefsKey, mock.MatchedBy(func(raw []byte) bool {
		var stored domain.CalendarPrefs
		return json.Unmarshal(raw, &stored) == nil &&
			stored.ContentMode == domain.ContentModeHotel &&
			stored.HotelFilterMode == domain.HotelFilterSelected
	}), mock.Anything).Return(nil).Once()

	prefs, err := suite.service.SaveCalendarPrefs(ctx, actor, domain.CalendarPrefs{
		HotelFilterMode: domain.HotelFilterSelected,
		SelectedHotels:  []string{"Rooms Kazbegi"},
		ContentMode:     "sideways",
	})

	suite.Require().NoError(err)
	suite.Equal(domain.ContentModeHotel, prefs.ContentMode)
	suite.Equal([]string{"Rooms Kazbegi"}, prefs.SelectedHotels)
	suite.mockProfileRepo.AssertExpectations(suite.T())
}

func TestProfileService(t *testing.T) {
	suite.Run(t, new(ProfileServiceTestSuite))
}
