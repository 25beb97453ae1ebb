package student

import "testing"

func TestOverallScore(t *testing.T) {
	tests := []struct {
		name   string
		grades map[string][]GradeEntry
		want   float64
		wantOk bool
	}{
		{name: "no grades is N/A"},
		{name: "empty papers is N/A", grades: map[string][]GradeEntry{"FR": {}}},
		{
			name:   "single entry",
			grades: map[string][]GradeEntry{"FR": {{Score: 70, ExamType: ExamTypeMock}}},
			want:   70, wantOk: true,
		},
		{
			name: "mean across papers and entries",
			grades: map[string][]GradeEntry{
				"FR":  {{Score: 60, ExamType: ExamTypeMock}, {Score: 80, ExamType: ExamTypeFinal}},
				"SBR": {{Score: 40, ExamType: ExamTypeMock}},
			},
			want: 60, wantOk: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			stu := Student{Grades: tt.grades}
			got, ok := stu.OverallScore()
			if ok != tt.wantOk {
				t.Fatalf("OverallScore() ok = %v, want %v", ok, tt.wantOk)
			}
			if got != tt.want {
				t.Errorf("OverallScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOverallAttendance(t *testing.T) {
	tests := []struct {
		name       string
		attendance map[string]float64
		want       float64
		wantOk     bool
	}{
		{name: "no attendance is N/A"},
		{name: "single paper", attendance: map[string]float64{"FR": 90}, want: 90, wantOk: true},
		{name: "mean of papers", attendance: map[string]float64{"FR": 80, "SBR": 60}, want: 70, wantOk: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			stu := Student{Attendance: tt.attendance}
			got, ok := stu.OverallAttendance()
			if ok != tt.wantOk {
				t.Fatalf("OverallAttendance() ok = %v, want %v", ok, tt.wantOk)
			}
			if got != tt.want {
				t.Errorf("OverallAttendance() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsEnrolledIn(t *testing.T) {
	stu := Student{EnrolledPapers: []string{"FR", "SBR"}}
	if !stu.IsEnrolledIn("FR") {
		t.Error("IsEnrolledIn(FR) = false, want true")
	}
	if stu.IsEnrolledIn("AFM") {
		t.Error("IsEnrolledIn(AFM) = true, want false")
	}
	// exact code match only
	if stu.IsEnrolledIn("F") {
		t.Error("IsEnrolledIn(F) matched a prefix")
	}
}
