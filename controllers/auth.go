package controllers

import (
	"log"
	"regexp"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/homecare/homecare-app/db"
	"github.com/homecare/homecare-app/middleware"
	"github.com/homecare/homecare-app/models"
	"github.com/homecare/homecare-app/utils"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Register handles user registration. Providers sign up with their
// profile fields and stay unapproved until an admin reviews them.
func Register(c *fiber.Ctx) error {
	type RegisterInput struct {
		Name        string  `json:"name"`
		Email       string  `json:"email"`
		Password    string  `json:"password"`
		Phone       string  `json:"phone"`
		Role        string  `json:"role"`
		ServiceType string  `json:"service_type"`
		Location    string  `json:"location"`
		Price       float64 `json:"price"`
		License     string  `json:"license"`
	}

	input := new(RegisterInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	// Validate before any remote call
	if input.Email == "" || input.Password == "" || input.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name, email and password are required",
		})
	}
	if !emailPattern.MatchString(input.Email) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid email format",
		})
	}
	if len(input.Password) < 6 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Password must be at least 6 characters",
		})
	}

	roleName := models.NormalizeRole(input.Role)
	if roleName == models.RoleUnknown {
		roleName = models.RoleClient
	}
	if roleName == models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Admin accounts are provisioned by migration",
		})
	}

	var existingUser models.User
	if db.DB.Where("email = ?", input.Email).First(&existingUser).RowsAffected > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "User with this email already exists",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to hash password",
		})
	}

	var role models.Role
	if err := db.DB.Where("name = ?", roleName).First(&role).Error; err != nil {
		log.Printf("Error finding role %s: %v", roleName, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to assign role",
		})
	}

	user := models.User{
		Name:         input.Name,
		Email:        input.Email,
		Password:     string(hashedPassword),
		Phone:        input.Phone,
		RoleID:       role.ID,
		Role:         role,
		Approved:     roleName == models.RoleClient,
		OTP:          utils.GenerateOTP(),
		OTPExpiresAt: time.Now().Add(15 * time.Minute),
	}

	if err := db.DB.Create(&user).Error; err != nil {
		log.Printf("Error creating user: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create user",
		})
	}

	if roleName == models.RoleProvider {
		profile := models.ProviderProfile{
			ProviderID:  user.ID,
			ServiceType: input.ServiceType,
			Location:    input.Location,
			Price:       input.Price,
			License:     input.License,
		}
		if err := db.DB.Create(&profile).Error; err != nil {
			log.Printf("Error creating provider profile: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to create provider profile",
			})
		}
	}

	if err := sendVerificationEmail(&user); err != nil {
		log.Printf("Failed to send verification email to %s: %v", user.Email, err)
	}

	user.Password = ""
	user.OTP = ""

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":    user,
		"message": "Verification code sent. Please check your inbox.",
	})
}

// VerifyEmail confirms the OTP sent at registration.
func VerifyEmail(c *fiber.Ctx) error {
	type VerifyInput struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}

	input := new(VerifyInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var user models.User
	if db.DB.Where("email = ?", input.Email).First(&user).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}
	if user.IsVerified {
		return c.JSON(fiber.Map{"message": "Email already verified"})
	}
	if user.OTP == "" || user.OTP != input.OTP || time.Now().After(user.OTPExpiresAt) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid or expired verification code",
		})
	}

	updates := map[string]interface{}{"is_verified": true, "otp": ""}
	if err := db.DB.Model(&user).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to verify email",
		})
	}

	return c.JSON(fiber.Map{"message": "Email verified successfully"})
}

// Login handles user authentication
func Login(c *fiber.Ctx) error {
	type LoginInput struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	input := new(LoginInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var user models.User
	if db.DB.Preload("Role").Where("email = ?", input.Email).First(&user).RowsAffected == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	if !user.IsVerified {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Please verify your email before logging in",
		})
	}
	if user.Blocked {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Account is blocked",
		})
	}

	roleName := user.RoleName()

	// Create access token
	claims := jwt.MapClaims{
		"id":    user.ID,
		"email": user.Email,
		"role":  roleName,
		"exp":   time.Now().Add(time.Hour * 24).Unix(), // 24 hour expiration
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(middleware.Secret()))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate token",
		})
	}

	// Create refresh token with longer expiration
	refreshClaims := jwt.MapClaims{
		"id":    user.ID,
		"email": user.Email,
		"exp":   time.Now().Add(time.Hour * 24 * 7).Unix(), // 7 day expiration
	}
	refreshToken := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims)
	refreshTokenString, err := refreshToken.SignedString([]byte(middleware.Secret()))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate refresh token",
		})
	}

	return c.JSON(fiber.Map{
		"token":        tokenString,
		"refreshToken": refreshTokenString,
		"user": fiber.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  roleName,
		},
	})
}

// GetUserProfile returns the current user's profile
func GetUserProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	var user models.User
	if err := db.DB.Preload("Role").Preload("Profile").First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	user.Password = ""
	user.OTP = ""
	return c.JSON(user)
}

// Logout marks the user offline. JWTs stay valid until expiry; presence
// is the only server-side session state to clear.
func Logout(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if ok && Presence != nil {
		role, _ := c.Locals("role").(string)
		if err := Presence.MarkOffline(c.Context(), userID, role); err != nil {
			log.Printf("Failed to mark user %d offline on logout: %v", userID, err)
		}
	}
	return c.JSON(fiber.Map{
		"message": "Successfully logged out",
	})
}

// RefreshToken generates a new access token using a refresh token
func RefreshToken(c *fiber.Ctx) error {
	type RefreshRequest struct {
		RefreshToken string `json:"refreshToken"`
	}

	refreshRequest := new(RefreshRequest)
	if err := c.BodyParser(refreshRequest); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	token, err := jwt.Parse(refreshRequest.RefreshToken, func(token *jwt.Token) (interface{}, error) {
		return []byte(middleware.Secret()), nil
	})
	if err != nil || !token.Valid {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid refresh token",
		})
	}

	claims := token.Claims.(jwt.MapClaims)
	userID, _ := claims["id"].(float64)

	// Re-read the role so a refreshed token carries the live one.
	var user models.User
	if err := db.DB.Preload("Role").First(&user, uint(userID)).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not found",
		})
	}
	if user.Blocked {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Account is blocked",
		})
	}

	newClaims := jwt.MapClaims{
		"id":    user.ID,
		"email": user.Email,
		"role":  user.RoleName(),
		"exp":   time.Now().Add(time.Hour * 24).Unix(),
	}
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, newClaims)
	tokenString, err := newToken.SignedString([]byte(middleware.Secret()))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate token",
		})
	}

	return c.JSON(fiber.Map{
		"token": tokenString,
	})
}

func sendVerificationEmail(user *models.User) error {
	subject := "Verify your HomeCare account"
	body := "<p>Dear " + user.Name + ",</p>" +
		"<p>Your verification code is <strong>" + user.OTP + "</strong>. " +
		"It expires in 15 minutes.</p>" +
		"<p>Best regards,<br>The HomeCare Team</p>"
	return utils.SendEmail(user.Email, subject, body)
}
