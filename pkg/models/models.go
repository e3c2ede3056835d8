// Package models defines the entity catalog of the admin console: one typed
// struct per collection the console manages, with JSON tags matching the wire
// shape and validate tags for the pre-submit required-field checks.
//
// IDs are opaque strings assigned by the server. Foreign keys are nullable
// string pointers; a nil key means the relation is unset. Some entities also
// carry denormalized display fields (names of related records, counts) that
// the list screens render without extra fetches.
package models

import "time"

// Entity is the contract every catalog type satisfies. The identity is what
// duplicate reconciliation and local splice/replace/remove key on.
type Entity interface {
	EntityID() string
}

// Company is a tenant. Deleting one cascades across everything it owns, so
// the console only deletes companies behind the staged confirmation flow and
// offers deactivation as the softer way out.
type Company struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" validate:"required"`
	Email     string    `json:"email" validate:"omitempty,email"`
	SectorID  *string   `json:"sectorId"`
	PlanID    *string   `json:"planId"`
	IsActive  bool      `json:"isActive"`
	UserCount int       `json:"userCount"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c Company) EntityID() string { return c.ID }

// User is a platform account, either a super admin or a company admin.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" validate:"required"`
	Email     string    `json:"email" validate:"required,email"`
	Role      string    `json:"role" validate:"required"`
	CompanyID *string   `json:"companyId"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u User) EntityID() string { return u.ID }

// Student is a trainee inside one company.
type Student struct {
	ID          string  `json:"id"`
	Name        string  `json:"name" validate:"required"`
	Email       string  `json:"email" validate:"required,email"`
	CompanyID   string  `json:"companyId" validate:"required"`
	SectorID    *string `json:"sectorId"`
	Sector      *Sector `json:"sector,omitempty"`
	IsActive    bool    `json:"isActive"`
	Enrollments int     `json:"enrollments"`
}

func (s Student) EntityID() string { return s.ID }

// Sector is a company-defined grouping of students (department, site, team).
type Sector struct {
	ID        string `json:"id"`
	Name      string `json:"name" validate:"required"`
	CompanyID string `json:"companyId" validate:"required"`
	Students  int    `json:"students"`
}

func (s Sector) EntityID() string { return s.ID }

// Course is a training course owned by a company.
type Course struct {
	ID          string `json:"id"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	CompanyID   string `json:"companyId" validate:"required"`
	IsPublished bool   `json:"isPublished"`
	ModuleCount int    `json:"moduleCount"`
}

func (c Course) EntityID() string { return c.ID }

// CourseModule is one ordered unit inside a course.
type CourseModule struct {
	ID       string `json:"id"`
	Title    string `json:"title" validate:"required"`
	CourseID string `json:"courseId" validate:"required"`
	Position int    `json:"position"`
}

func (m CourseModule) EntityID() string { return m.ID }

// Lesson is one teachable item inside a module.
type Lesson struct {
	ID       string `json:"id"`
	Title    string `json:"title" validate:"required"`
	ModuleID string `json:"moduleId" validate:"required"`
	Content  string `json:"content"`
	Position int    `json:"position"`
}

func (l Lesson) EntityID() string { return l.ID }

// Material is a downloadable file attached to a lesson. FilePath, FileName
// and FileSize come from the upload endpoint, not from the form.
type Material struct {
	ID       string `json:"id"`
	Title    string `json:"title" validate:"required"`
	LessonID string `json:"lessonId" validate:"required"`
	FilePath string `json:"filePath" validate:"required"`
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
}

func (m Material) EntityID() string { return m.ID }

// Enrollment statuses as the API reports them.
const (
	EnrollmentActive    = "active"
	EnrollmentCompleted = "completed"
	EnrollmentCancelled = "cancelled"
)

// Enrollment links a student to a course and tracks progress.
type Enrollment struct {
	ID          string     `json:"id"`
	StudentID   string     `json:"studentId" validate:"required"`
	CourseID    string     `json:"courseId" validate:"required"`
	Status      string     `json:"status"`
	Progress    float64    `json:"progress"`
	StudentName string     `json:"studentName"`
	CourseTitle string     `json:"courseTitle"`
	EnrolledAt  time.Time  `json:"enrolledAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

func (e Enrollment) EntityID() string { return e.ID }

// Certificate is issued on course completion. Revocation is a soft
// transition: the record stays, IsActive flips.
type Certificate struct {
	ID        string     `json:"id"`
	Code      string     `json:"code" validate:"required"`
	StudentID string     `json:"studentId" validate:"required"`
	CourseID  string     `json:"courseId" validate:"required"`
	IsActive  bool       `json:"isActive"`
	IssuedAt  time.Time  `json:"issuedAt"`
	RevokedAt *time.Time `json:"revokedAt"`
}

func (c Certificate) EntityID() string { return c.ID }

// Question types supported by the global question bank.
const (
	QuestionSingleChoice = "single_choice"
	QuestionMultiChoice  = "multi_choice"
	QuestionTrueFalse    = "true_false"
)

// Question belongs to the global question bank and may be shared across
// tests.
type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text" validate:"required"`
	Type    string   `json:"type" validate:"required"`
	Options []string `json:"options"`
	Answer  int      `json:"answer"`
}

func (q Question) EntityID() string { return q.ID }

// Test is a global assessment built from bank questions.
type Test struct {
	ID            string  `json:"id"`
	Title         string  `json:"title" validate:"required"`
	QuestionCount int     `json:"questionCount"`
	PassScore     float64 `json:"passScore" validate:"min=0,max=100"`
	IsActive      bool    `json:"isActive"`
}

func (t Test) EntityID() string { return t.ID }

// TestResult is one student's attempt at a test. Results are read-only on
// the console; they exist for the reports screens.
type TestResult struct {
	ID          string    `json:"id"`
	TestID      string    `json:"testId"`
	StudentID   string    `json:"studentId"`
	Score       float64   `json:"score"`
	Passed      bool      `json:"passed"`
	CompletedAt time.Time `json:"completedAt"`
}

func (r TestResult) EntityID() string { return r.ID }

// Plan is a subscription tier companies pay for.
type Plan struct {
	ID       string  `json:"id"`
	Name     string  `json:"name" validate:"required"`
	Price    float64 `json:"price" validate:"min=0"`
	MaxUsers int     `json:"maxUsers"`
	IsActive bool    `json:"isActive"`
}

func (p Plan) EntityID() string { return p.ID }

// Payment statuses as the API reports them.
const (
	PaymentPending   = "pending"
	PaymentConfirmed = "confirmed"
	PaymentCancelled = "cancelled"
)

// Payment records one charge against a company's plan.
type Payment struct {
	ID          string     `json:"id"`
	CompanyID   string     `json:"companyId" validate:"required"`
	PlanID      string     `json:"planId" validate:"required"`
	Amount      float64    `json:"amount" validate:"min=0"`
	Status      string     `json:"status"`
	CompanyName string     `json:"companyName"`
	PaidAt      *time.Time `json:"paidAt"`
}

func (p Payment) EntityID() string { return p.ID }
