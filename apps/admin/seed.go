package main

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/brightpath/academia/core"
	"github.com/brightpath/academia/core/billing"
	"github.com/brightpath/academia/core/course"
	"github.com/brightpath/academia/core/exam"
	"github.com/brightpath/academia/core/student"
	"github.com/brightpath/academia/core/user"
)

// seed loads a small demo data set: a few papers, staff accounts and one
// enrolled student. Safe to re-run; records that already exist are skipped.
func (cli *commandLine) seed() error {
	for _, nc := range []course.NewCourse{
		{Code: "FR", Title: "Financial Reporting", Program: "ACCA"},
		{Code: "SBR", Title: "Strategic Business Reporting", Program: "ACCA"},
		{Code: "AFM", Title: "Advanced Financial Management", Program: "ACCA"},
	} {
		if _, err := cli.crsSvc.Create(nc); err != nil && !isValidationErr(err) {
			return errors.Wrap(err, "seeding course "+nc.Code)
		}
	}

	for _, nu := range []user.NewUser{
		{Name: "Demo Admin", Username: "admin", Email: "admin@brightpath.test",
			Password: "ChangeMe123", Roles: []string{user.RoleAdminPrincipal}},
		{Name: "Demo Teacher", Username: "teacher", Email: "teacher@brightpath.test",
			Password: "ChangeMe123", Roles: []string{user.RoleTeacher}},
		{Name: "Asha Demo", Email: "asha@brightpath.test", StudentID: "S12345",
			Password: "password123", Roles: []string{user.RoleStudent}},
	} {
		if _, err := cli.usrSvc.GetByLogin(firstNonEmpty(nu.Username, nu.StudentID)); err == nil {
			continue
		} else if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		if _, err := cli.usrSvc.Create(nu); err != nil {
			return errors.Wrap(err, "seeding user "+nu.Name)
		}
	}

	if _, err := cli.stuSvc.GetByStudentID("S12345"); errors.Cause(err) == student.ErrNotFound {
		_, err = cli.stuSvc.Create(student.NewStudent{
			StudentID:      "S12345",
			Name:           "Asha Demo",
			Email:          "asha@brightpath.test",
			Program:        "ACCA",
			EnrolledPapers: []string{"FR", "SBR"},
			TotalFee:       150000,
			Discount:       10000,
			DueDate:        time.Now().UTC().AddDate(0, 1, 0),
		})
		if err != nil {
			return errors.Wrap(err, "seeding student")
		}
	} else if err != nil {
		return err
	}

	payments, err := cli.billSvc.QueryByStudent("S12345")
	if err != nil {
		return err
	}
	if len(payments) == 0 {
		_, err = cli.billSvc.Record(billing.NewPayment{
			StudentID: "S12345",
			Amount:    70000,
			Method:    "bank_transfer",
			Remarks:   "first instalment",
		})
		if err != nil {
			return errors.Wrap(err, "seeding payment")
		}
	}

	tests, err := cli.exmSvc.QueryTestsByPaper("FR")
	if err != nil {
		return err
	}
	if len(tests) == 0 {
		_, err = cli.exmSvc.CreateTest(exam.NewMockTest{
			PaperCode:       "FR",
			Title:           "FR Mock 1",
			DurationMinutes: 30,
			Questions: []exam.Question{
				{Prompt: "Which statement reports financial position?",
					Options: []string{"SOFP", "SOPL", "SOCE", "SOCF"}},
				{Prompt: "Goodwill arises on...",
					Options: []string{"consolidation", "revaluation", "depreciation", "impairment"}},
			},
		})
		if err != nil {
			return errors.Wrap(err, "seeding mock test")
		}
	}

	fmt.Println("demo data loaded")
	return nil
}

func isValidationErr(err error) bool {
	_, ok := errors.Cause(err).(*core.ValidationError)
	return ok
}

func firstNonEmpty(strs ...string) string {
	for _, s := range strs {
		if s != "" {
			return s
		}
	}
	return ""
}
