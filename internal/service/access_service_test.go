package service

import (
	"errors"
	"testing"

	"gorm.io/gorm"

	"shiine-academy-backend/internal/models"
	"shiine-academy-backend/internal/statestore"
	"shiine-academy-backend/pkg/cache"
)

type mockCourseRepo struct {
	courses map[uint]models.Course
}

func (m *mockCourseRepo) Create(course *models.Course) error {
	if m.courses == nil {
		m.courses = map[uint]models.Course{}
	}
	course.ID = uint(len(m.courses) + 1)
	m.courses[course.ID] = *course
	return nil
}

func (m *mockCourseRepo) Update(course *models.Course) error {
	m.courses[course.ID] = *course
	return nil
}

func (m *mockCourseRepo) Delete(id uint) error {
	delete(m.courses, id)
	return nil
}

func (m *mockCourseRepo) GetByID(id uint) (*models.Course, error) {
	if course, ok := m.courses[id]; ok {
		copy := course
		return &copy, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) List() ([]models.Course, error) {
	result := make([]models.Course, 0, len(m.courses))
	for id := uint(1); id <= uint(len(m.courses)); id++ {
		if course, ok := m.courses[id]; ok {
			result = append(result, course)
		}
	}
	return result, nil
}

func (m *mockCourseRepo) Exists(id uint) (bool, error) {
	_, ok := m.courses[id]
	return ok, nil
}

type mockEnrollmentRepo struct {
	enrolled map[[2]uint]bool
	upserts  int
}

func (m *mockEnrollmentRepo) Upsert(enrollment *models.Enrollment) error {
	if m.enrolled == nil {
		m.enrolled = map[[2]uint]bool{}
	}
	m.enrolled[[2]uint{enrollment.UserID, enrollment.CourseID}] = true
	m.upserts++
	return nil
}

func (m *mockEnrollmentRepo) Exists(userID, courseID uint) (bool, error) {
	return m.enrolled[[2]uint{userID, courseID}], nil
}

func (m *mockEnrollmentRepo) ListByUser(userID uint) ([]models.Enrollment, error) {
	var result []models.Enrollment
	for key := range m.enrolled {
		if key[0] == userID {
			result = append(result, models.Enrollment{UserID: key[0], CourseID: key[1]})
		}
	}
	return result, nil
}

// mockLessonRepo mirrors the soft-delete semantics of the gorm repository:
// deleted lessons disappear from reads but their order indexes stay reserved.
type mockLessonRepo struct {
	lessons map[uint][]models.Lesson
	removed map[uint]bool
}

func (m *mockLessonRepo) Create(lesson *models.Lesson) error {
	if m.lessons == nil {
		m.lessons = map[uint][]models.Lesson{}
	}
	m.lessons[lesson.CourseID] = append(m.lessons[lesson.CourseID], *lesson)
	return nil
}

func (m *mockLessonRepo) Delete(id uint) error {
	if m.removed == nil {
		m.removed = map[uint]bool{}
	}
	m.removed[id] = true
	return nil
}

func (m *mockLessonRepo) GetByID(id uint) (*models.Lesson, error) {
	for _, lessons := range m.lessons {
		for _, lesson := range lessons {
			if lesson.ID == id && !m.removed[lesson.ID] {
				copy := lesson
				return &copy, nil
			}
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLessonRepo) ListByCourse(courseID uint) ([]models.Lesson, error) {
	var result []models.Lesson
	for _, lesson := range m.lessons[courseID] {
		if !m.removed[lesson.ID] {
			result = append(result, lesson)
		}
	}
	return result, nil
}

// MaxOrderIndex covers removed lessons too, matching the unscoped query in
// the gorm repository.
func (m *mockLessonRepo) MaxOrderIndex(courseID uint) (int, error) {
	max := 0
	for _, lesson := range m.lessons[courseID] {
		if lesson.OrderIndex > max {
			max = lesson.OrderIndex
		}
	}
	return max, nil
}

type mockQuizRepo struct {
	questions map[uint][]models.QuizQuestion
}

func (m *mockQuizRepo) Create(question *models.QuizQuestion) error {
	if m.questions == nil {
		m.questions = map[uint][]models.QuizQuestion{}
	}
	m.questions[question.CourseID] = append(m.questions[question.CourseID], *question)
	return nil
}

func (m *mockQuizRepo) Delete(id uint) error { return nil }

func (m *mockQuizRepo) GetByID(id uint) (*models.QuizQuestion, error) {
	for _, questions := range m.questions {
		for _, question := range questions {
			if question.ID == id {
				copy := question
				return &copy, nil
			}
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockQuizRepo) ListByCourse(courseID uint) ([]models.QuizQuestion, error) {
	result := make([]models.QuizQuestion, len(m.questions[courseID]))
	copy(result, m.questions[courseID])
	return result, nil
}

type mockAttemptRepo struct {
	attempts []models.PaymentAttempt
}

func (m *mockAttemptRepo) Create(attempt *models.PaymentAttempt) error {
	m.attempts = append(m.attempts, *attempt)
	return nil
}

func (m *mockAttemptRepo) ListByUser(userID uint) ([]models.PaymentAttempt, error) {
	var result []models.PaymentAttempt
	for _, attempt := range m.attempts {
		if attempt.UserID == userID {
			result = append(result, attempt)
		}
	}
	return result, nil
}

type mockUserRepo struct {
	users  map[uint]models.User
	nextID uint
}

func (m *mockUserRepo) Create(user *models.User) error {
	if m.users == nil {
		m.users = map[uint]models.User{}
	}
	m.nextID++
	user.ID = m.nextID
	m.users[user.ID] = *user
	return nil
}

func (m *mockUserRepo) GetByID(id uint) (*models.User, error) {
	if user, ok := m.users[id]; ok {
		copy := user
		return &copy, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			copy := user
			return &copy, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetAll() ([]models.User, error) {
	result := make([]models.User, 0, len(m.users))
	for _, user := range m.users {
		result = append(result, user)
	}
	return result, nil
}

func (m *mockUserRepo) Update(user *models.User) error {
	m.users[user.ID] = *user
	return nil
}

func (m *mockUserRepo) Delete(id uint) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) Count() (int64, error) {
	return int64(len(m.users)), nil
}

func newTestStore() *statestore.Store {
	return statestore.NewStore(cache.NewCache("", false))
}

func newAccessFixture() (*AccessService, *mockCourseRepo, *mockEnrollmentRepo, *statestore.Store) {
	courseRepo := &mockCourseRepo{courses: map[uint]models.Course{
		1: {ID: 1, Title: "Free course", Type: models.CourseTypeFree},
		2: {ID: 2, Title: "Paid course", Type: models.CourseTypePaid, Price: 25},
	}}
	enrollmentRepo := &mockEnrollmentRepo{}
	store := newTestStore()
	return NewAccessService(courseRepo, enrollmentRepo, store), courseRepo, enrollmentRepo, store
}

func TestSelectFreeCourseOpensPlayerDirectly(t *testing.T) {
	access, _, _, store := newAccessFixture()

	state, err := access.SelectCourse(10, 1)
	if err != nil {
		t.Fatalf("SelectCourse: %v", err)
	}
	if state.View != statestore.ViewPlayer {
		t.Fatalf("free course should open the player, got %q", state.View)
	}
	if state.CourseID != 1 {
		t.Errorf("expected course 1, got %d", state.CourseID)
	}

	if persisted := store.Navigation(10); persisted.View != statestore.ViewPlayer {
		t.Errorf("player state should be persisted, got %q", persisted.View)
	}
}

func TestSelectFreeCourseAnonymousNeverAwaitsPayment(t *testing.T) {
	access, _, _, _ := newAccessFixture()

	state, err := access.SelectCourse(0, 1)
	if err != nil {
		t.Fatalf("SelectCourse: %v", err)
	}
	if state.View == statestore.ViewAwaitingPayment || state.View == statestore.ViewAwaitingAuth {
		t.Fatalf("free course must not gate on auth or payment, got %q", state.View)
	}
}

func TestSelectPaidCourseWithoutSession(t *testing.T) {
	access, _, _, _ := newAccessFixture()

	state, err := access.SelectCourse(0, 2)
	if err != nil {
		t.Fatalf("SelectCourse: %v", err)
	}
	if state.View != statestore.ViewAwaitingAuth {
		t.Fatalf("paid course without a session should await auth, got %q", state.View)
	}
	if state.PendingCourseID != 2 {
		t.Errorf("pending course must survive the auth hand-off, got %d", state.PendingCourseID)
	}
}

func TestAuthSuccessResolvesPendingCourseToPayment(t *testing.T) {
	access, _, _, store := newAccessFixture()

	state, err := access.OnAuthSuccess(10, 2)
	if err != nil {
		t.Fatalf("OnAuthSuccess: %v", err)
	}
	if state.View != statestore.ViewAwaitingPayment {
		t.Fatalf("signed-in but unenrolled should await payment, got %q", state.View)
	}
	if state.CourseID != 2 {
		t.Errorf("expected course 2, got %d", state.CourseID)
	}

	if persisted := store.Navigation(10); persisted.View != statestore.ViewAwaitingPayment {
		t.Errorf("payment state should be persisted, got %q", persisted.View)
	}
}

func TestAuthSuccessWithoutPendingLandsOnCatalog(t *testing.T) {
	access, _, _, _ := newAccessFixture()

	state, err := access.OnAuthSuccess(10, 0)
	if err != nil {
		t.Fatalf("OnAuthSuccess: %v", err)
	}
	if state.View != statestore.ViewCatalog {
		t.Fatalf("expected catalog, got %q", state.View)
	}
}

func TestSelectPaidCourseWhenEnrolled(t *testing.T) {
	access, _, enrollmentRepo, _ := newAccessFixture()
	enrollmentRepo.Upsert(&models.Enrollment{UserID: 10, CourseID: 2})

	state, err := access.SelectCourse(10, 2)
	if err != nil {
		t.Fatalf("SelectCourse: %v", err)
	}
	if state.View != statestore.ViewPlayer {
		t.Fatalf("enrolled user should open the player, got %q", state.View)
	}
}

func TestSelectUnknownCourse(t *testing.T) {
	access, _, _, _ := newAccessFixture()

	if _, err := access.SelectCourse(10, 99); !errors.Is(err, ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestPreviewPaidCourse(t *testing.T) {
	access, _, _, _ := newAccessFixture()

	state, err := access.PreviewCourse(0, 2)
	if err != nil {
		t.Fatalf("PreviewCourse: %v", err)
	}
	if state.View != statestore.ViewPlayer || !state.Preview {
		t.Fatalf("expected preview player, got %+v", state)
	}
}

func TestPreviewFreeCourseIsFullAccess(t *testing.T) {
	access, _, _, _ := newAccessFixture()

	state, err := access.PreviewCourse(10, 1)
	if err != nil {
		t.Fatalf("PreviewCourse: %v", err)
	}
	if state.Preview {
		t.Fatal("free course preview should not be restricted")
	}
}

func TestPaymentCompleteOpensPlayer(t *testing.T) {
	access, _, _, store := newAccessFixture()

	state := access.OnPaymentComplete(10, 2)
	if state.View != statestore.ViewPlayer || state.CourseID != 2 {
		t.Fatalf("expected player for course 2, got %+v", state)
	}
	if persisted := store.Navigation(10); persisted != state {
		t.Errorf("payment completion should persist, got %+v", persisted)
	}
}

func TestEnrollFromPreview(t *testing.T) {
	access, _, enrollmentRepo, _ := newAccessFixture()

	state, err := access.EnrollFromPreview(10, 2)
	if err != nil {
		t.Fatalf("EnrollFromPreview: %v", err)
	}
	if state.View != statestore.ViewAwaitingPayment {
		t.Fatalf("unenrolled preview viewer should reach payment, got %q", state.View)
	}

	enrollmentRepo.Upsert(&models.Enrollment{UserID: 10, CourseID: 2})
	state, err = access.EnrollFromPreview(10, 2)
	if err != nil {
		t.Fatalf("EnrollFromPreview: %v", err)
	}
	if state.View != statestore.ViewPlayer {
		t.Fatalf("enrolled viewer should open the player, got %q", state.View)
	}
}

func TestResetClearsNavigation(t *testing.T) {
	access, _, _, store := newAccessFixture()

	if _, err := access.SelectCourse(10, 2); err != nil {
		t.Fatalf("SelectCourse: %v", err)
	}
	access.Reset(10)

	if state := store.Navigation(10); state.View != statestore.ViewCatalog {
		t.Fatalf("expected catalog after reset, got %+v", state)
	}
}

func TestSignOutEventResetsNavigation(t *testing.T) {
	access, _, _, store := newAccessFixture()
	auth, _, _ := newAuthFixture()

	unbind := BindAuthEvents(auth, access)

	if _, err := access.SelectCourse(10, 2); err != nil {
		t.Fatalf("SelectCourse: %v", err)
	}
	auth.Logout(10, "ayaan@example.com")

	if state := store.Navigation(10); state.View != statestore.ViewCatalog {
		t.Fatalf("sign-out must reset navigation, got %+v", state)
	}

	unbind()
	if _, err := access.SelectCourse(10, 2); err != nil {
		t.Fatalf("SelectCourse: %v", err)
	}
	auth.Logout(10, "ayaan@example.com")

	if state := store.Navigation(10); state.View != statestore.ViewAwaitingPayment {
		t.Fatalf("unbound listener must no longer reset, got %+v", state)
	}
}

func TestForgetUserPurgesAllState(t *testing.T) {
	access, _, _, store := newAccessFixture()

	if _, err := access.SelectCourse(10, 2); err != nil {
		t.Fatalf("SelectCourse: %v", err)
	}
	record := statestore.DefaultProgress()
	record.Completed[1] = true
	if err := store.SaveProgress(10, 1, record); err != nil {
		t.Fatalf("SaveProgress: %v", err)
	}

	access.ForgetUser(10)

	if state := store.Navigation(10); state.View != statestore.ViewCatalog {
		t.Errorf("navigation should be gone, got %+v", state)
	}
	if progress := store.Progress(10, 1); len(progress.Completed) != 0 {
		t.Errorf("progress should be gone, got %+v", progress)
	}
}
