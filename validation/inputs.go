package validation

// StudentInput is the create/update payload for a student.
type StudentInput struct {
	FullName    string `json:"full_name" validate:"required,min=2"`
	Age         int    `json:"age" validate:"required,gte=5,lte=18"`
	Grade       int    `json:"grade" validate:"omitempty,gte=1,lte=12"`
	Gender      string `json:"gender"`
	Email       string `json:"email" validate:"omitempty,email"`
	ParentEmail string `json:"parent_email" validate:"omitempty,email"`
	ParentPhone string `json:"parent_phone"`
	Notes       string `json:"notes"`
}

// ClassInput is the create/update payload for a class.
type ClassInput struct {
	Name        string `json:"name" validate:"required,min=2"`
	Description string `json:"description"`
	Subject     string `json:"subject"`
	GradeLevel  int    `json:"grade_level" validate:"omitempty,gte=1,lte=12"`
	Capacity    int    `json:"capacity" validate:"omitempty,gte=1"`
	Schedule    string `json:"schedule"`
}

// GradeInput is the create/update payload for a grade.
type GradeInput struct {
	StudentID  uint    `json:"student_id" validate:"required"`
	ClassID    uint    `json:"class_id" validate:"required"`
	Assignment string  `json:"assignment" validate:"required"`
	Score      float64 `json:"score" validate:"gte=0,lte=100"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterInput struct {
	FullName        string `json:"full_name" validate:"required,min=3"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// ProfileInput updates the signed-in teacher's profile.
type ProfileInput struct {
	FullName  string `json:"full_name" validate:"omitempty,min=2"`
	Email     string `json:"email" validate:"omitempty,email"`
	AvatarURL string `json:"avatar_url"`
}

type PasswordInput struct {
	Current string `json:"current" validate:"required"`
	Next    string `json:"next" validate:"required,min=6"`
}
