// Package types holds all shared data structures used across the
// application. Keeping them in one place prevents import cycles:
// handlers, services and storage can all import types without depending
// on each other.
//
// There are three families of types here:
//
//  1. Entities (Curso, Aluno) carry gorm:"..." tags and map 1:1 to the
//     cursos and alunos tables.
//  2. Inputs (CursoInput, AlunoInput) are decoded from request bodies and
//     carry validate:"..." tags checked by go-playground/validator.
//  3. Responses (CursoResponse, AlunoResponse) are what the API returns.
//
// Entities never leave the service layer; the mapping functions at the
// bottom of this file are the only place where one family becomes another.
package types

import (
	"time"

	"gorm.io/datatypes"
)

// DateLayout is the wire format of dataMatricula.
const DateLayout = "2006-01-02"

// Curso is a course row. Deleting a course deletes its students.
type Curso struct {
	ID        int64   `gorm:"primaryKey;autoIncrement"`
	Nome      string  `gorm:"size:100;not null;uniqueIndex"`
	Descricao *string `gorm:"size:255"`
}

// TableName pins the table name instead of gorm's pluralised default.
func (Curso) TableName() string { return "cursos" }

// Aluno is a student row. Curso is populated on reads so the response
// can carry the course name.
type Aluno struct {
	ID            int64          `gorm:"primaryKey;autoIncrement"`
	Nome          string         `gorm:"size:100;not null"`
	Matricula     string         `gorm:"size:20;not null;uniqueIndex"`
	Email         string         `gorm:"size:100;not null;uniqueIndex"`
	CursoID       int64          `gorm:"not null;index"`
	Curso         Curso          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Semestre      int            `gorm:"not null"`
	MediaGeral    float64        `gorm:"column:media_geral;not null"`
	DataMatricula datatypes.Date `gorm:"column:data_matricula"`
}

func (Aluno) TableName() string { return "alunos" }

// CursoInput is the body of POST and PUT /api/cursos.
type CursoInput struct {
	Nome      string  `json:"nome"      validate:"required,notblank,min=3,max=100"`
	Descricao *string `json:"descricao" validate:"omitempty,max=255"`
}

// AlunoInput is the body of POST and PUT /api/alunos.
//
// CursoID and Semestre are pointers so that "missing" and "zero" can be
// told apart: required on a pointer means "present in the JSON".
// MediaGeral is optional; nil means "default" on create and "keep" on update.
type AlunoInput struct {
	Nome       string   `json:"nome"       validate:"required,notblank,min=3,max=100"`
	Matricula  string   `json:"matricula"  validate:"required,notblank,min=5,max=20"`
	Email      string   `json:"email"      validate:"required,notblank,max=100,email"`
	CursoID    *int64   `json:"cursoId"    validate:"required"`
	Semestre   *int     `json:"semestre"   validate:"required,min=1,max=20"`
	MediaGeral *float64 `json:"mediaGeral" validate:"omitempty,min=0,max=10"`
}

// CursoResponse is the JSON shape of a course.
type CursoResponse struct {
	ID        int64   `json:"id"`
	Nome      string  `json:"nome"`
	Descricao *string `json:"descricao"`
}

// AlunoResponse is the JSON shape of a student, enriched with the name of
// its course.
type AlunoResponse struct {
	ID            int64   `json:"id"`
	Nome          string  `json:"nome"`
	Matricula     string  `json:"matricula"`
	Email         string  `json:"email"`
	CursoID       int64   `json:"cursoId"`
	CursoNome     string  `json:"cursoNome"`
	Semestre      int     `json:"semestre"`
	MediaGeral    float64 `json:"mediaGeral"`
	DataMatricula string  `json:"dataMatricula,omitempty"`
}

// NewCursoResponse maps a stored course to its response.
func NewCursoResponse(c Curso) CursoResponse {
	return CursoResponse{
		ID:        c.ID,
		Nome:      c.Nome,
		Descricao: c.Descricao,
	}
}

// NewCursoResponses maps a slice, returning [] rather than nil so the
// JSON body is an empty array.
func NewCursoResponses(cs []Curso) []CursoResponse {
	out := make([]CursoResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, NewCursoResponse(c))
	}
	return out
}

// NewAlunoResponse maps a stored student to its response. a.Curso must
// have been loaded.
func NewAlunoResponse(a Aluno) AlunoResponse {
	resp := AlunoResponse{
		ID:         a.ID,
		Nome:       a.Nome,
		Matricula:  a.Matricula,
		Email:      a.Email,
		CursoID:    a.CursoID,
		CursoNome:  a.Curso.Nome,
		Semestre:   a.Semestre,
		MediaGeral: a.MediaGeral,
	}
	if t := time.Time(a.DataMatricula); !t.IsZero() {
		resp.DataMatricula = t.Format(DateLayout)
	}
	return resp
}

func NewAlunoResponses(as []Aluno) []AlunoResponse {
	out := make([]AlunoResponse, 0, len(as))
	for _, a := range as {
		out = append(out, NewAlunoResponse(a))
	}
	return out
}

// NewAluno builds a student entity from a validated input. A nil
// MediaGeral leaves the 0.0 default; the enrollment date is the caller's.
func NewAluno(in AlunoInput) Aluno {
	a := Aluno{
		Nome:      in.Nome,
		Matricula: in.Matricula,
		Email:     in.Email,
	}
	if in.CursoID != nil {
		a.CursoID = *in.CursoID
	}
	if in.Semestre != nil {
		a.Semestre = *in.Semestre
	}
	if in.MediaGeral != nil {
		a.MediaGeral = *in.MediaGeral
	}
	return a
}
