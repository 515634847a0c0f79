package seed

import (
	"shiine-academy-backend/internal/models"
	"shiine-academy-backend/internal/repository"
	"shiine-academy-backend/pkg/logger"
)

type seedCourse struct {
	course  models.Course
	lessons []models.Lesson
}

// EnsureSampleCourses populates an empty catalog with the storefront's
// starter courses so a fresh install has something to show. A non-empty
// catalog is left untouched.
func EnsureSampleCourses(courseRepo repository.CourseRepository, lessonRepo repository.LessonRepository) {
	if courseRepo == nil || lessonRepo == nil {
		return
	}

	existing, err := courseRepo.List()
	if err != nil {
		logger.Error(err, "Failed to inspect catalog before seeding", nil)
		return
	}
	if len(existing) > 0 {
		return
	}

	for _, entry := range sampleCourses() {
		course := entry.course

		pricing, err := models.DeriveCoursePricing(course.Price)
		if err != nil {
			logger.Error(err, "Skipping seed course with bad price", map[string]interface{}{
				"title": course.Title,
			})
			continue
		}
		course.Type = pricing.Type
		course.PriceLabel = pricing.PriceLabel
		course.ButtonText = pricing.ButtonText

		if err := courseRepo.Create(&course); err != nil {
			logger.Error(err, "Failed to seed course", map[string]interface{}{
				"title": course.Title,
			})
			continue
		}

		for i, lesson := range entry.lessons {
			lesson.CourseID = course.ID
			lesson.OrderIndex = i + 1
			if err := lessonRepo.Create(&lesson); err != nil {
				logger.Error(err, "Failed to seed lesson", map[string]interface{}{
					"course": course.Title,
					"lesson": lesson.Title,
				})
			}
		}

		logger.Info("Seeded course", map[string]interface{}{
			"course_id": course.ID,
			"title":     course.Title,
			"lessons":   len(entry.lessons),
		})
	}
}

func sampleCourses() []seedCourse {
	return []seedCourse{
		{
			course: models.Course{
				Title:       "Accounting & QuickBooks",
				Description: "Baro xisaabaadka ganacsiga iyo QuickBooks, laga bilaabo aasaaska ilaa warbixinnada maaliyadeed.",
				Price:       25,
				ImageURL:    "/uploads/seed-accounting.webp",
			},
			lessons: []models.Lesson{
				{Title: "Hordhac: Accounting-ka Ganacsiga", Duration: "12:40", VideoURL: "https://www.youtube.com/watch?v=Qo5iS-XGDKM"},
				{Title: "Dejinta QuickBooks", Duration: "18:22", VideoURL: "https://www.youtube.com/watch?v=kJQP7kiw5Fk"},
				{Title: "Diiwaangelinta Dakhliga", Duration: "21:05", VideoURL: "https://www.youtube.com/watch?v=3JZ_D3ELwOQ"},
			},
		},
		{
			course: models.Course{
				Title:       "Computer-ka Aasaasiga ah",
				Description: "Koorso bilaash ah oo lagu barto isticmaalka computer-ka iyo internet-ka.",
				Price:       0,
				ImageURL:    "/uploads/seed-computer.webp",
			},
			lessons: []models.Lesson{
				{Title: "Qaybaha Computer-ka", Duration: "09:15", VideoURL: "https://youtu.be/dQw4w9WgXcQ"},
				{Title: "Windows iyo Faylasha", Duration: "14:48", VideoURL: "https://www.youtube.com/watch?v=9bZkp7q19f0"},
			},
		},
		{
			course: models.Course{
				Title:       "Graphic Design - Adobe Photoshop",
				Description: "Ka bilow eber ilaa aad naqshadeyso sawirro xirfad leh adigoo isticmaalaya Photoshop.",
				Price:       40,
				ImageURL:    "/uploads/seed-design.webp",
			},
			lessons: []models.Lesson{
				{Title: "Interface-ka Photoshop", Duration: "16:30", VideoURL: "https://www.youtube.com/watch?v=IcrbM1l_BoI"},
				{Title: "Layers iyo Masks", Duration: "24:12", VideoURL: "https://www.youtube.com/watch?v=fLexgOxsZu0"},
				{Title: "Naqshadaynta Xayaysiis", Duration: "19:58", VideoURL: "https://www.youtube.com/watch?v=L_jWHffIx5E"},
			},
		},
	}
}
