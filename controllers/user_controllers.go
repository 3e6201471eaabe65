package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dapurkita/restaurant-manager/models"
	"github.com/dapurkita/restaurant-manager/utils"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// Register creates a customer account together with its loyalty profile.
// Staff accounts are created through the admin endpoint instead.
func (uc *UserController) Register(c *gin.Context) {
	type request struct {
		Username  string `json:"username" binding:"required"`
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password" binding:"required,min=8"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Phone     string `json:"phone"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	user := models.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  string(hashed),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		UserType:  models.RoleCustomer,
		IsActive:  true,
	}

	err = uc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		profile := models.CustomerProfile{
			UserID:    user.ID,
			TierLevel: models.TierBronze,
		}
		return tx.Create(&profile).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusConflict, errors.New("username or email already taken"))
		return
	}

	utils.InfoLogger.Printf("New customer registered: %s", user.Email)

	utils.RespondJSON(c, http.StatusCreated, "Account created", gin.H{
		"user_id": user.ID,
	})
}

// Login returns a JWT for any active account.
func (uc *UserController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	if !user.IsActive {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("account is disabled"))
		return
	}

	token, err := utils.GenerateToken(user.ID, user.UserType)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token":     token,
		"user_role": strings.ToLower(user.UserType),
	})
}

// Logout blacklists the presented token until it would have expired anyway.
func (uc *UserController) Logout(c *gin.Context) {
	token := c.GetString("token")
	if token != "" {
		utils.BlacklistToken(token)
	}
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

// GetProfile returns the authenticated user plus the loyalty profile for
// customers.
func (uc *UserController) GetProfile(c *gin.Context) {
	userID := c.GetUint("user_id")

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	data := gin.H{"user": user}
	if user.UserType == models.RoleCustomer {
		var profile models.CustomerProfile
		if err := uc.DB.Where("user_id = ?", userID).First(&profile).Error; err == nil {
			data["profile"] = profile
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Profile data", data)
}

// UpdateProfile writes the users row and the customer profile atomically.
func (uc *UserController) UpdateProfile(c *gin.Context) {
	userID := c.GetUint("user_id")

	type request struct {
		FirstName  *string `json:"first_name"`
		LastName   *string `json:"last_name"`
		Phone      *string `json:"phone"`
		Address    *string `json:"address"`
		City       *string `json:"city"`
		State      *string `json:"state"`
		PostalCode *string `json:"postal_code"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	err := uc.DB.Transaction(func(tx *gorm.DB) error {
		if req.FirstName != nil {
			user.FirstName = *req.FirstName
		}
		if req.LastName != nil {
			user.LastName = *req.LastName
		}
		if req.Phone != nil {
			user.Phone = *req.Phone
		}
		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		if user.UserType != models.RoleCustomer {
			return nil
		}
		var profile models.CustomerProfile
		if err := tx.Where("user_id = ?", userID).First(&profile).Error; err != nil {
			return err
		}
		if req.Address != nil {
			profile.Address = *req.Address
		}
		if req.City != nil {
			profile.City = *req.City
		}
		if req.State != nil {
			profile.State = *req.State
		}
		if req.PostalCode != nil {
			profile.PostalCode = *req.PostalCode
		}
		return tx.Save(&profile).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Profile updated", user)
}

// CreateStaffUser lets an admin add staff/manager accounts.
func (uc *UserController) CreateStaffUser(c *gin.Context) {
	type request struct {
		Username  string `json:"username" binding:"required"`
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password" binding:"required,min=8"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		UserType  string `json:"user_type" binding:"required"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.UserType != models.RoleStaff && req.UserType != models.RoleManager && req.UserType != models.RoleAdmin {
		utils.RespondError(c, http.StatusUnprocessableEntity, utils.Validationf("user_type must be staff, manager or admin"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	user := models.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  string(hashed),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		UserType:  req.UserType,
		IsActive:  true,
	}
	if err := uc.DB.Create(&user).Error; err != nil {
		utils.RespondError(c, http.StatusConflict, errors.New("username or email already taken"))
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Staff user created", gin.H{"user_id": user.ID})
}

// GetAllUsers lists accounts for the back office.
func (uc *UserController) GetAllUsers(c *gin.Context) {
	var users []models.User
	query := uc.DB
	if userType := c.Query("user_type"); userType != "" {
		query = query.Where("user_type = ?", userType)
	}
	if err := query.Find(&users).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All users", users)
}
