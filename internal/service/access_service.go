package service

import (
	"shiine-academy-backend/internal/models"
	"shiine-academy-backend/internal/repository"
	"shiine-academy-backend/internal/statestore"
	"shiine-academy-backend/pkg/logger"
)

// AccessService decides what a user may open next: the catalog, the auth
// step, the payment step or the player. Every decision is persisted as the
// user's navigation state so a reload lands on the same screen.
//
// Anonymous visitors (userID 0) get decisions but no persistence; their
// pending course travels with the auth request instead.
type AccessService struct {
	courseRepo     repository.CourseRepository
	enrollmentRepo repository.EnrollmentRepository
	store          *statestore.Store
}

func NewAccessService(
	courseRepo repository.CourseRepository,
	enrollmentRepo repository.EnrollmentRepository,
	store *statestore.Store,
) *AccessService {
	return &AccessService{
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		store:          store,
	}
}

// State returns the user's persisted navigation snapshot.
func (s *AccessService) State(userID uint) statestore.NavigationState {
	if userID == 0 {
		return statestore.DefaultNavigation()
	}
	return s.store.Navigation(userID)
}

// SelectCourse resolves a catalog click. Free courses open the player
// directly and never pass through the payment step. Paid courses require a
// session first, then an enrollment.
func (s *AccessService) SelectCourse(userID, courseID uint) (statestore.NavigationState, error) {
	course, err := s.courseRepo.GetByID(courseID)
	if err != nil {
		if isNotFound(err) {
			return statestore.DefaultNavigation(), ErrCourseNotFound
		}
		return statestore.DefaultNavigation(), err
	}

	state, err := s.resolve(userID, course)
	if err != nil {
		return statestore.DefaultNavigation(), err
	}
	s.persist(userID, state)
	return state, nil
}

// PreviewCourse opens the player in preview mode, which shows the first
// lesson only. Previews are open to everyone, signed in or not.
func (s *AccessService) PreviewCourse(userID, courseID uint) (statestore.NavigationState, error) {
	course, err := s.courseRepo.GetByID(courseID)
	if err != nil {
		if isNotFound(err) {
			return statestore.DefaultNavigation(), ErrCourseNotFound
		}
		return statestore.DefaultNavigation(), err
	}

	state := statestore.NavigationState{
		View:     statestore.ViewPlayer,
		CourseID: course.ID,
		Preview:  course.Type == models.CourseTypePaid && !s.isEnrolled(userID, course.ID),
	}
	s.persist(userID, state)
	return state, nil
}

// OnAuthSuccess re-resolves the course the visitor picked before signing in.
// With no pending course the user simply lands on the catalog.
func (s *AccessService) OnAuthSuccess(userID, pendingCourseID uint) (statestore.NavigationState, error) {
	if pendingCourseID == 0 {
		state := statestore.DefaultNavigation()
		s.persist(userID, state)
		return state, nil
	}

	course, err := s.courseRepo.GetByID(pendingCourseID)
	if err != nil {
		if isNotFound(err) {
			// The pending course vanished while the user was signing in.
			state := statestore.DefaultNavigation()
			s.persist(userID, state)
			return state, nil
		}
		return statestore.DefaultNavigation(), err
	}

	state, err := s.resolve(userID, course)
	if err != nil {
		return statestore.DefaultNavigation(), err
	}
	s.persist(userID, state)
	return state, nil
}

// OnPaymentComplete opens the player with full access after a successful
// charge.
func (s *AccessService) OnPaymentComplete(userID, courseID uint) statestore.NavigationState {
	state := statestore.NavigationState{
		View:     statestore.ViewPlayer,
		CourseID: courseID,
	}
	s.persist(userID, state)
	return state
}

// EnrollFromPreview moves a preview viewer towards full access: to the
// payment step, or straight to the player when they already paid.
func (s *AccessService) EnrollFromPreview(userID, courseID uint) (statestore.NavigationState, error) {
	course, err := s.courseRepo.GetByID(courseID)
	if err != nil {
		if isNotFound(err) {
			return statestore.DefaultNavigation(), ErrCourseNotFound
		}
		return statestore.DefaultNavigation(), err
	}

	state, err := s.resolve(userID, course)
	if err != nil {
		return statestore.DefaultNavigation(), err
	}
	s.persist(userID, state)
	return state, nil
}

// OpenAdmin records the console as the current view. Authorization happens in
// middleware before this is reached.
func (s *AccessService) OpenAdmin(userID uint) statestore.NavigationState {
	state := statestore.NavigationState{View: statestore.ViewAdmin}
	s.persist(userID, state)
	return state
}

// Reset clears the snapshot on sign-out so the next session starts at the
// catalog.
func (s *AccessService) Reset(userID uint) {
	if userID == 0 {
		return
	}
	s.store.ClearNavigation(userID)
}

// ForgetUser wipes everything stored for an account: the navigation snapshot
// and every per-course progress record. Called when the account is deleted.
func (s *AccessService) ForgetUser(userID uint) {
	if userID == 0 {
		return
	}
	s.store.Purge(userID)
}

// BindAuthEvents subscribes the access service to session lifecycle events: a
// sign-out wipes the stored navigation so the next session starts at the
// catalog. Sign-in stays a direct call because its handler needs the resolved
// state in the response. Returns the unsubscribe function.
func BindAuthEvents(auth *AuthService, access *AccessService) func() {
	return auth.Subscribe(func(event AuthEvent) {
		if event.Type == AuthEventSignOut {
			access.Reset(event.UserID)
		}
	})
}

// HasFullAccess reports whether the user may watch the whole course: free
// courses are open to all, paid ones need an enrollment.
func (s *AccessService) HasFullAccess(userID uint, course *models.Course) bool {
	if course == nil {
		return false
	}
	if course.Type == models.CourseTypeFree {
		return true
	}
	return s.isEnrolled(userID, course.ID)
}

func (s *AccessService) resolve(userID uint, course *models.Course) (statestore.NavigationState, error) {
	if course.Type == models.CourseTypeFree {
		return statestore.NavigationState{View: statestore.ViewPlayer, CourseID: course.ID}, nil
	}

	if userID == 0 {
		return statestore.NavigationState{
			View:            statestore.ViewAwaitingAuth,
			PendingCourseID: course.ID,
		}, nil
	}

	if s.isEnrolled(userID, course.ID) {
		return statestore.NavigationState{View: statestore.ViewPlayer, CourseID: course.ID}, nil
	}

	return statestore.NavigationState{
		View:     statestore.ViewAwaitingPayment,
		CourseID: course.ID,
	}, nil
}

func (s *AccessService) isEnrolled(userID, courseID uint) bool {
	if userID == 0 {
		return false
	}
	enrolled, err := s.enrollmentRepo.Exists(userID, courseID)
	if err != nil {
		logger.Error(err, "Failed to check enrollment", map[string]interface{}{
			"user_id":   userID,
			"course_id": courseID,
		})
		return false
	}
	return enrolled
}

func (s *AccessService) persist(userID uint, state statestore.NavigationState) {
	if userID == 0 {
		return
	}
	if err := s.store.SaveNavigation(userID, state); err != nil {
		logger.Error(err, "Failed to persist navigation state", map[string]interface{}{
			"user_id": userID,
		})
	}
}
