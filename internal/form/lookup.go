package form

import (
	"context"
	"strconv"
	"sync"

	"github.com/heartmarshall/scolary/internal/domain"
	"github.com/heartmarshall/scolary/internal/service/enrollment"
)

type studentFinder interface {
	LookupStudent(ctx context.Context, q enrollment.LookupQuery) (*domain.Student, error)
}

// LookupResult is the outcome of StudentLookup.Search.
type LookupResult struct {
	// Skipped is set when the same lookup already ran and was not forced.
	Skipped bool
	Student *domain.Student
	// Registers are the annual registers with at least one registered semester.
	Registers []domain.AnnualRegister
}

// StudentLookup fills a form from a card number search and suppresses
// repeated identical searches.
type StudentLookup struct {
	finder studentFinder

	mu      sync.Mutex
	lastKey string
}

func NewStudentLookup(finder studentFinder) *StudentLookup {
	return &StudentLookup{finder: finder}
}

// Search looks the student up unless q has the same key as the last search
// and force is false. On success the known profile fields are copied into st;
// null fields leave the current value in place.
func (l *StudentLookup) Search(ctx context.Context, st State, q enrollment.LookupQuery, force bool) (LookupResult, error) {
	key := q.Key()

	l.mu.Lock()
	if !force && key == l.lastKey {
		l.mu.Unlock()
		return LookupResult{Skipped: true}, nil
	}
	l.lastKey = key
	l.mu.Unlock()

	student, err := l.finder.LookupStudent(ctx, q)
	if err != nil {
		l.mu.Lock()
		if l.lastKey == key {
			l.lastKey = ""
		}
		l.mu.Unlock()
		return LookupResult{}, err
	}

	Fill(st, student)

	var registers []domain.AnnualRegister
	for _, r := range student.AnnualRegisters {
		if len(r.RegisterSemesters) > 0 {
			registers = append(registers, r)
		}
	}
	return LookupResult{Student: student, Registers: registers}, nil
}

// Reset forgets the last search key.
func (l *StudentLookup) Reset() {
	l.mu.Lock()
	l.lastKey = ""
	l.mu.Unlock()
}

// Fill copies the non-null profile fields of s into st.
func Fill(st State, s *domain.Student) {
	if s == nil {
		return
	}
	if s.CardNumber != "" {
		st[KeyCardNumber] = s.CardNumber
	}

	for key, v := range map[FieldKey]*string{
		KeyLastName:    s.LastName,
		KeyFirstName:   s.FirstName,
		KeySex:         s.Sex,
		KeyBirthDate:   s.BirthDate,
		KeyBirthPlace:  s.BirthPlace,
		KeyAddress:     s.Address,
		KeyEmail:       s.Email,
		KeyNationality: s.Nationality,
		KeyCIN:         s.CIN,
		KeyCINDate:     s.CINDate,
		KeyCINPlace:    s.CINPlace,
		KeyBaccNumber:  s.BaccNumber,
		KeyBaccSerie:   s.BaccSerie,
		KeyBaccCenter:  s.BaccCenter,
		KeyJob:         s.JobTitle,
		KeyFatherName:  s.FatherName,
		KeyMotherName:  s.MotherName,
	} {
		if v != nil {
			st[key] = *v
		}
	}
	if s.PhoneNumber != nil {
		st[KeyPhoneNumber] = FormatMadagascarPhone(*s.PhoneNumber)
	}
	if s.MentionID != nil {
		st[KeyMention] = strconv.FormatInt(*s.MentionID, 10)
	}
}

// StudentPayload converts form values to the student request body.
func StudentPayload(st State) (domain.StudentPayload, error) {
	p := domain.StudentPayload{
		CardNumber:  trim(st[KeyCardNumber]),
		LastName:    trim(st[KeyLastName]),
		FirstName:   trim(st[KeyFirstName]),
		Sex:         st[KeySex],
		BirthDate:   st[KeyBirthDate],
		BirthPlace:  trim(st[KeyBirthPlace]),
		Address:     trim(st[KeyAddress]),
		PhoneNumber: st[KeyPhoneNumber],
		Email:       trim(st[KeyEmail]),
		Nationality: trim(st[KeyNationality]),
		CIN:         trim(st[KeyCIN]),
		CINDate:     st[KeyCINDate],
		CINPlace:    trim(st[KeyCINPlace]),
		BaccNumber:  trim(st[KeyBaccNumber]),
		BaccSerie:   trim(st[KeyBaccSerie]),
		BaccCenter:  trim(st[KeyBaccCenter]),
		JobTitle:    trim(st[KeyJob]),
		FatherName:  trim(st[KeyFatherName]),
		MotherName:  trim(st[KeyMotherName]),
	}
	if raw := trim(st[KeyMention]); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return p, domain.NewValidationError("id_mention", "must be a number")
		}
		p.MentionID = id
	}
	return p, Validate(p)
}
