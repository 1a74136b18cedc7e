// file: internals/route/index.go
package route

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"escola_backend/internals/configs"
	gradeController "escola_backend/internals/features/school/grades/controller"
	reportController "escola_backend/internals/features/school/reports/controller"
	reportService "escola_backend/internals/features/school/reports/service"
	settingsController "escola_backend/internals/features/school/settings/controller"
	settingsService "escola_backend/internals/features/school/settings/service"
	studentController "escola_backend/internals/features/school/students/controller"
	studentService "escola_backend/internals/features/school/students/service"
	teacherController "escola_backend/internals/features/school/teachers/controller"
	userController "escola_backend/internals/features/users/controller"
	helper "escola_backend/internals/helpers"
	supa "escola_backend/internals/helpers/supabase"
	"escola_backend/internals/middlewares"
	authMw "escola_backend/internals/middlewares/auth"
)

const studentPhotoBucket = "student-photos"

// SetupRoutes wires every endpoint. The student write path is chosen
// here, once per process, from STUDENT_BACKEND.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	validate := helper.NewValidator()

	writer, supaSvc := buildStudentWriter(db)
	listing := studentService.NewListingEngine(studentService.NewStudentStore(db), configs.StudentPageSize)

	students := studentController.NewStudentController(db, validate, writer, listing)
	grades := gradeController.NewGradeController(db, validate)
	teachers := teacherController.NewTeacherController(db, validate)
	settings := settingsController.NewSettingsController(settingsService.NewService(db), validate)
	reports := reportController.NewReportController(reportService.NewReportService(db))
	auth := userController.NewAuthController(db, validate, supaSvc)

	// =======================
	// PUBLIC
	// =======================
	app.Post("/login", middlewares.LoginRateLimiter(), auth.Login)
	app.Post("/logout", auth.Logout)

	// =======================
	// ADMIN AREA (/api/a)
	// =======================
	admin := app.Group("/api/a", authMw.AuthJWT(), authMw.RequireRoles("admin"))

	admin.Get("/students", students.List)
	admin.Post("/students", students.Create)
	admin.Get("/students/import/template", students.Template)
	admin.Post("/students/import", students.Import)
	admin.Get("/students/:id", students.GetByID)
	admin.Put("/students/:id", students.Update)
	admin.Delete("/students/:id", students.Delete)

	admin.Post("/grades", grades.Create)
	admin.Put("/grades/:id", grades.Update)
	admin.Delete("/grades/:id", grades.Delete)

	admin.Get("/teachers", teachers.List)
	admin.Post("/teachers", teachers.Create)
	admin.Get("/teachers/:id", teachers.GetByID)
	admin.Put("/teachers/:id", teachers.Update)
	admin.Delete("/teachers/:id", teachers.Delete)
	admin.Post("/teachers/:id/assignments", teachers.CreateAssignment)
	admin.Post("/teachers/:id/slots", teachers.CreateSlot)

	admin.Get("/settings", settings.Get)
	admin.Put("/settings", settings.Update)

	// =======================
	// TEACHER AREA (/api/u)
	// =======================
	user := app.Group("/api/u", authMw.AuthJWT(), authMw.RequireRoles("teacher"))

	user.Get("/students", students.List)
	user.Get("/students/:id", students.GetByID)
	user.Get("/students/:id/grades", grades.ListByStudent)
	user.Get("/teachers/:id/assignments", teachers.ListAssignments)

	user.Get("/reports/cohort-averages", reports.CohortAverages)
	user.Get("/reports/low-grades", reports.LowGrades)
	user.Get("/reports/subject-averages", reports.SubjectAverages)
}

// buildStudentWriter picks the persistence backend. The remote service
// handle is also returned so auth can share it; it is nil in local mode.
func buildStudentWriter(db *gorm.DB) (studentService.StudentWriter, *supa.Service) {
	if configs.StudentBackend == configs.StudentBackendSupabase {
		svc, err := supa.NewServiceFromEnv(studentPhotoBucket)
		if err != nil {
			log.Fatalf("❌ supabase backend selected but not configured: %v", err)
		}
		photos := studentService.NewPhotoService(studentService.NewSupabaseBlobStore(svc))
		log.Println("🗄️ Student backend: supabase")
		return studentService.NewSupabaseStudentWriter(db, svc, photos), svc
	}

	mediaRoot := configs.GetEnv("MEDIA_ROOT", "./media")
	photos := studentService.NewPhotoService(studentService.NewLocalBlobStore(mediaRoot))
	log.Println("🗄️ Student backend: local")
	return studentService.NewLocalStudentWriter(db, photos), nil
}
