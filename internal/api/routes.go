package api

import (
	"gymlog/backend/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	workoutService service.WorkoutService,
	mealService service.MealService,
	bodyService service.BodyService,
	nutritionService service.NutritionService,
) {

	authHandler := NewAuthHandler(authService)
	workoutHandler := NewWorkoutHandler(workoutService)
	mealHandler := NewMealHandler(mealService)
	bodyHandler := NewBodyHandler(bodyService)
	nutritionHandler := NewNutritionHandler(nutritionService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userID, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			c.JSON(http.StatusOK, gin.H{"userId": userID.Hex()})
		})

		// --- Workout Routes ---
		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.POST("/logs", workoutHandler.LogSet)
			workoutGroup.GET("/logs", workoutHandler.GetLogsByDate)
			workoutGroup.PUT("/logs/:logId", workoutHandler.UpdateLog)
			workoutGroup.DELETE("/logs/:logId", workoutHandler.DeleteLog)

			// Derived views maintained by the aggregator worker. Reads here
			// may lag writes to /logs by a moment.
			workoutGroup.GET("/latest-weights", workoutHandler.GetLatestWeights)
			workoutGroup.GET("/volume-load", workoutHandler.GetVolumeLoad)

			workoutGroup.GET("/exercises", workoutHandler.GetExerciseOptions)
			workoutGroup.POST("/exercises", workoutHandler.AddExerciseOption)
			workoutGroup.DELETE("/exercises/:optionId", workoutHandler.DeleteExerciseOption)
		}

		// --- Meal Routes ---
		mealGroup := protected.Group("/meals")
		{
			mealGroup.POST("", mealHandler.LogMeal)
			mealGroup.GET("", mealHandler.GetMealsByDate)
			mealGroup.PUT("/:mealId", mealHandler.UpdateMeal)
			mealGroup.DELETE("/:mealId", mealHandler.DeleteMeal)
		}

		// Kept outside /meals so the preset routes do not collide with the
		// :mealId wildcard.
		mealOptionGroup := protected.Group("/meal-options")
		{
			mealOptionGroup.GET("", mealHandler.GetMealOptions)
			mealOptionGroup.POST("", mealHandler.AddMealOption)
			mealOptionGroup.DELETE("/:optionId", mealHandler.DeleteMealOption)
		}

		// --- Daily Target Routes ---
		targetGroup := protected.Group("/targets")
		{
			targetGroup.POST("", mealHandler.SetDailyTarget)
			targetGroup.GET("", mealHandler.GetDailyTargets)
			targetGroup.DELETE("/:targetId", mealHandler.DeleteDailyTarget)
		}

		// --- Body Info Routes ---
		bodyGroup := protected.Group("/body")
		{
			bodyGroup.POST("", bodyHandler.RecordBodyInfo)
			bodyGroup.GET("", bodyHandler.GetBodyInfoHistory)
			bodyGroup.PUT("/:infoId", bodyHandler.UpdateBodyInfo)
			bodyGroup.DELETE("/:infoId", bodyHandler.DeleteBodyInfo)
			bodyGroup.POST("/photo-upload", bodyHandler.RequestPhotoUpload)
		}

		// --- Nutrition Lookup ---
		protected.GET("/nutrition/search", nutritionHandler.SearchFood)
	}
}
