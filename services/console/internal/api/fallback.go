package api

import "github.com/md-rashed-zaman/clinicadmin/services/console/internal/model"

// Local data served when the backend cannot be reached. Each call returns a
// fresh deep copy so callers may mutate the result.

var fallbackDepartments = []model.Department{
	{
		ID:          1,
		Name:        "Cardiologist",
		Description: "Comprehensive heart care services including diagnosis, treatment, and prevention of cardiovascular diseases with state-of-the-art technology.",
		Icon:        "fas fa-heartbeat",
		Services:    []string{"ECG", "Echocardiography", "Cardiac Catheterization", "Heart Surgery", "Pacemaker Implantation"},
		Specialists: 1,
	},
	{
		ID:          2,
		Name:        "Neurologist",
		Description: "Advanced neurological care for brain, spine, and nervous system disorders with cutting-edge diagnostic and treatment facilities.",
		Icon:        "fas fa-brain",
		Services:    []string{"MRI Scans", "EEG", "Stroke Treatment", "Epilepsy Care", "Brain Surgery"},
		Specialists: 1,
	},
	{
		ID:          3,
		Name:        "Pediatrician",
		Description: "Dedicated healthcare for children from newborns to adolescents, providing comprehensive medical care in a child-friendly environment.",
		Icon:        "fas fa-baby",
		Services:    []string{"Vaccinations", "Growth Monitoring", "Pediatric Surgery", "NICU", "Child Psychology"},
		Specialists: 1,
	},
	{
		ID:          4,
		Name:        "Orthopedic Surgeon",
		Description: "Complete bone, joint, and muscle care including sports medicine, joint replacement, and trauma surgery with rehabilitation services.",
		Icon:        "fas fa-bone",
		Services:    []string{"Joint Replacement", "Sports Medicine", "Trauma Surgery", "Physiotherapy", "Arthroscopy"},
		Specialists: 1,
	},
	{
		ID:          5,
		Name:        "Dermatologist",
		Description: "Comprehensive skin care services including medical, surgical, and cosmetic dermatology with advanced laser treatments.",
		Icon:        "fas fa-hand-paper",
		Services:    []string{"Skin Cancer Treatment", "Cosmetic Procedures", "Laser Therapy", "Acne Treatment", "Dermatologic Surgery"},
		Specialists: 1,
	},
	{
		ID:          6,
		Name:        "General Surgeon",
		Description: "Expert surgical care including minimally invasive procedures, emergency surgeries, and comprehensive operative management.",
		Icon:        "fas fa-user-md",
		Services:    []string{"Appendectomy", "Gallbladder Surgery", "Hernia Repair", "Emergency Surgery", "Minimally Invasive Surgery"},
		Specialists: 1,
	},
	{
		ID:          7,
		Name:        "Just Another Department",
		Description: "Expert surgical care including minimally invasive procedures, emergency surgeries, and comprehensive operative management.",
		Icon:        "fas fa-user-md",
		Services:    []string{"Appendectomy", "Gallbladder Surgery", "Hernia Repair", "Emergency Surgery", "Minimally Invasive Surgery"},
		Specialists: 1,
	},
}

var fallbackDoctors = []model.Doctor{
	{
		ID:              1,
		Name:            "Dr. Sarah Johnson",
		Specialty:       "Cardiologist",
		Experience:      "15 years",
		Education:       "MD, Harvard Medical School",
		Image:           "https://images.unsplash.com/photo-1559839734-2b71ea197ec2?w=400&h=400&fit=crop&crop=face",
		AvailableDays:   []string{"Monday", "Wednesday", "Friday"},
		ShortBio:        "Specialist in cardiovascular diseases with extensive experience in heart surgery.",
		ConsultationFee: "Rs. 200",
	},
	{
		ID:              2,
		Name:            "Dr. Michael Chen",
		Specialty:       "Neurologist",
		Experience:      "12 years",
		Education:       "MD, Johns Hopkins University",
		Image:           "https://images.unsplash.com/photo-1612349317150-e413f6a5b16d?w=400&h=400&fit=crop&crop=face",
		AvailableDays:   []string{"Tuesday", "Thursday", "Saturday"},
		ShortBio:        "Expert in treating neurological disorders and brain-related conditions.",
		ConsultationFee: "Rs. 180",
	},
	{
		ID:              3,
		Name:            "Dr. Emily Rodriguez",
		Specialty:       "Pediatrician",
		Experience:      "10 years",
		Education:       "MD, Stanford University",
		Image:           "https://images.unsplash.com/photo-1559839734-2b71ea197ec2?w=400&h=400&fit=crop&crop=face",
		AvailableDays:   []string{"Monday", "Tuesday", "Thursday"},
		ShortBio:        "Dedicated to providing comprehensive healthcare for children and adolescents.",
		ConsultationFee: "Rs. 150",
	},
	{
		ID:              4,
		Name:            "Dr. Robert Wilson",
		Specialty:       "Orthopedic Surgeon",
		Experience:      "18 years",
		Education:       "MD, Mayo Clinic",
		Image:           "https://images.unsplash.com/photo-1582750433449-648ed127bb54?w=400&h=400&fit=crop&crop=face",
		AvailableDays:   []string{"Wednesday", "Friday", "Saturday"},
		ShortBio:        "Specializes in joint replacement and sports medicine injuries.",
		ConsultationFee: "Rs. 220",
	},
	{
		ID:              5,
		Name:            "Dr. Lisa Thompson",
		Specialty:       "Dermatologist",
		Experience:      "8 years",
		Education:       "MD, UCLA Medical School",
		Image:           "https://images.unsplash.com/photo-1612349317150-e413f6a5b16d?w=400&h=400&fit=crop&crop=face",
		AvailableDays:   []string{"Monday", "Wednesday", "Friday"},
		ShortBio:        "Expert in skin conditions, cosmetic procedures, and dermatological surgery.",
		ConsultationFee: "Rs. 160",
	},
	{
		ID:              6,
		Name:            "Dr. David Kumar",
		Specialty:       "General Surgeon",
		Experience:      "14 years",
		Education:       "MD, Yale Medical School",
		Image:           "https://images.unsplash.com/photo-1622253692010-333f2da6031d?w=400&h=400&fit=crop&crop=face",
		AvailableDays:   []string{"Tuesday", "Thursday", "Saturday"},
		ShortBio:        "Skilled in minimally invasive surgical techniques and emergency procedures.",
		ConsultationFee: "Rs. 190",
	},
	{
		ID:              7,
		Name:            "Dr. David Kumar",
		Specialty:       "General Surgeon",
		Experience:      "14 years",
		Education:       "MD, Yale Medical School",
		Image:           "https://images.unsplash.com/photo-1622253692010-333f2da6031d?w=400&h=400&fit=crop&crop=face",
		AvailableDays:   []string{"Tuesday", "Thursday", "Saturday"},
		ShortBio:        "Skilled in minimally invasive surgical techniques and emergency procedures.",
		ConsultationFee: "Rs. 190",
	},
}

var fallbackTests = []model.HealthTest{
	{ID: 1, Name: "Complete Blood Count (CBC)", Price: 25, Department: "Hematology", AvailableTimeSlots: []string{"Morning 8-11 AM", "Afternoon 2-5 PM"}},
	{ID: 2, Name: "Chest X-Ray", Price: 80, Department: "Radiology", AvailableTimeSlots: []string{"Morning 9-12 PM", "Evening 3-6 PM"}},
	{ID: 3, Name: "Lipid Profile", Price: 35, Department: "Biochemistry", AvailableTimeSlots: []string{"Morning 8-11 AM", "Afternoon 1-4 PM", "Evening 5-7 PM"}},
	{ID: 4, Name: "ECG (Electrocardiogram)", Price: 45, Department: "Cardiology", AvailableTimeSlots: []string{"Morning 9-12 PM", "Afternoon 2-5 PM"}},
	{ID: 5, Name: "Thyroid Function Test", Price: 55, Department: "Endocrinology", AvailableTimeSlots: []string{"Morning 8-10 AM", "Late Morning 10-12 PM"}},
	{ID: 6, Name: "Ultrasound Abdomen", Price: 120, Department: "Radiology", AvailableTimeSlots: []string{"Morning 10-12 PM", "Afternoon 2-4 PM", "Evening 4-6 PM"}},
	{ID: 7, Name: "Blood Sugar Test", Price: 15, Department: "Biochemistry", AvailableTimeSlots: []string{"Morning 8-11 AM", "Afternoon 2-5 PM"}},
	{ID: 8, Name: "Urine Analysis", Price: 20, Department: "Pathology", AvailableTimeSlots: []string{"Morning 8-12 PM", "Afternoon 1-5 PM"}},
}

func FallbackDepartments() []model.Department {
	out := make([]model.Department, len(fallbackDepartments))
	for i, d := range fallbackDepartments {
		d.Services = append([]string(nil), d.Services...)
		out[i] = d
	}
	return out
}

func FallbackDoctors() []model.Doctor {
	out := make([]model.Doctor, len(fallbackDoctors))
	for i, d := range fallbackDoctors {
		d.AvailableDays = append([]string(nil), d.AvailableDays...)
		d.TimeSlots = append([]model.TimeSlot(nil), d.TimeSlots...)
		out[i] = d
	}
	return out
}

func FallbackTests() []model.HealthTest {
	out := make([]model.HealthTest, len(fallbackTests))
	for i, t := range fallbackTests {
		t.AvailableTimeSlots = append([]string(nil), t.AvailableTimeSlots...)
		out[i] = t
	}
	return out
}
