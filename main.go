package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/ethyne2666/project-management/clients"
	"github.com/ethyne2666/project-management/handlers"
	"github.com/ethyne2666/project-management/logging"
	"github.com/ethyne2666/project-management/middleware"
	"github.com/ethyne2666/project-management/repositories"
	"github.com/ethyne2666/project-management/services"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	logging.InitLogger()
	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting Projects Service...")

	if err := godotenv.Load(".env"); err != nil {
		logging.Logger.Warnf("Event ID: ENV_LOAD_WARNING, Description: No .env file loaded: %v", err)
	}

	mongoURI := os.Getenv("MONGO_URI")
	mongoDBName := os.Getenv("MONGO_DB_NAME")
	if mongoURI == "" || mongoDBName == "" {
		logging.Logger.Fatal("Event ID: CONFIG_ERROR, Description: MONGO_URI and MONGO_DB_NAME must be set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection failed: %v", err)
	}
	defer client.Disconnect(context.Background())

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s", mongoURI)

	db := client.Database(mongoDBName)
	workspacesCollection := db.Collection("workspaces")
	usersCollection := db.Collection("users")
	projectsCollection := db.Collection("projects")
	projectMembersCollection := db.Collection("project_members")
	tasksCollection := db.Collection("tasks")

	if err := repositories.EnsureIndexes(ctx, usersCollection, projectMembersCollection); err != nil {
		logging.Logger.Fatalf("Event ID: DB_INDEX_FAILED, Description: %v", err)
	}

	workspaceRepo := repositories.NewWorkspaceRepo(workspacesCollection)
	userRepo := repositories.NewUserRepo(usersCollection)
	projectRepo := repositories.NewProjectRepo(projectsCollection, projectMembersCollection)
	taskRepo := repositories.NewTaskRepo(tasksCollection)
	transactor := repositories.NewMongoTransactor(client)

	notifier := clients.NewNotificationsClient(os.Getenv("NOTIFICATIONS_URL"))

	projectService := services.NewProjectService(workspaceRepo, userRepo, projectRepo, taskRepo, transactor, notifier)
	taskService := services.NewTaskService(projectRepo, taskRepo, userRepo, notifier)

	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)

	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.JWTAuthMiddleware)
	api.HandleFunc("/projects", projectHandler.CreateProject).Methods(http.MethodPost)
	api.HandleFunc("/projects", projectHandler.ListProjects).Methods(http.MethodGet)
	api.HandleFunc("/projects/{id}", projectHandler.UpdateProject).Methods(http.MethodPut)
	api.HandleFunc("/projects/{id}", projectHandler.GetProjectByID).Methods(http.MethodGet)
	api.HandleFunc("/projects/{projectId}/members", projectHandler.AddMemberToProject).Methods(http.MethodPost)
	api.HandleFunc("/projects/{projectId}/members", projectHandler.GetProjectMembers).Methods(http.MethodGet)
	api.HandleFunc("/projects/{projectId}/tasks", taskHandler.GetTasksByProject).Methods(http.MethodGet)
	api.HandleFunc("/tasks", taskHandler.CreateTask).Methods(http.MethodPost)

	corsRouter := enableCORS(r)

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", serverPort),
		Handler:      corsRouter,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost:%s", serverPort)
	if err := srv.ListenAndServe(); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
	}
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
