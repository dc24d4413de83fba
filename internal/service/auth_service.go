package service

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"arkiv_quests_backend/internal/config"
	"arkiv_quests_backend/internal/model"
	"arkiv_quests_backend/internal/repository"
	"arkiv_quests_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo *repository.UserRepository
	Config   *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{UserRepo: userRepo, Config: cfg}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Wallet   string `json:"wallet"`
}

// Register 注册账户并绑定钱包地址；不提供钱包时派生一个伪地址，
// 钱包私钥管理不在本服务范围内
func (s *AuthService) Register(req RegisterRequest) (*model.User, error) {
	if _, err := s.UserRepo.FindByEmail(req.Email); err == nil {
		return nil, util.ErrEmailRegistered
	}

	wallet := req.Wallet
	if wallet == "" {
		wallet = deriveWallet(req.Email)
	} else if _, err := s.UserRepo.FindByWallet(wallet); err == nil {
		return nil, util.ErrWalletRegistered
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:          req.Name,
		Email:         req.Email,
		Password:      string(hashed),
		WalletAddress: wallet,
		Role:          model.Student,
	}
	if err := s.UserRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func (s *AuthService) Login(req LoginRequest) (*LoginResponse, error) {
	user, err := s.UserRepo.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, util.ErrUserNotFound
	}

	jwtCfg := s.Config.JWT
	if cur := config.Current(); cur != nil {
		jwtCfg = cur.JWT
	}
	token, err := util.GenerateJWT(user, jwtCfg.Secret, jwtCfg.ExpireTime)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{Token: token, User: user}, nil
}

func (s *AuthService) GetProfile(userID uint) (*model.User, error) {
	return s.UserRepo.FindByID(userID)
}

func deriveWallet(seed string) string {
	sum := sha256.Sum256([]byte(seed + model.GenerateUUID()))
	return "0x" + hex.EncodeToString(sum[:20])
}
