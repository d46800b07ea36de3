package i18n

import "golang.org/x/text/language"

type table struct {
	tag     language.Tag
	strings map[string]string
}

var tables = []table{
	{tag: language.English, strings: english},
	{tag: language.BrazilianPortuguese, strings: portuguese},
}

var english = map[string]string{
	"methodNotAllowed":   "This method is not allowed.",
	"appMaintenanceMode": "We're under maintenance. Please, try again later.",
	"internalError":      "Something went wrong while processing your request.",
	"tooManyRequests":    "Too many requests. Please, slow down.",

	"user.userLogoutError":              "Error while trying to log out.",
	"user.userLogoutSuccess":            "User logged out successfully.",
	"user.userLogoutAllSuccess":         "User logged out all devices successfully",
	"user.userLogoutAllError":           "Error while trying to logout from all devices",
	"user.userNotFoundByToken":          "An user with the provided authentication token was not found",
	"user.userNotAuthenticated":         "User not authenticated. Please, check your authentication credentials and try again.",
	"user.userCreationError":            "Error while trying to create your user",
	"user.userNotFoundOnLogin":          "Error while trying to login. User not found.",
	"user.userWrongPassword":            "Error while trying to login. Please check your credential details",
	"user.usersNotFound":                "No users found.",
	"user.userNotFound":                 "User not found.",
	"user.userDeleteNotFound":           "The user you're trying to delete does not exist.",
	"user.userProfileGetError":          "Error while trying to fetch your user's profile.",
	"user.userDeleteError":              "Error while trying to delete your user",
	"user.userPatchForbiddenKeys":       "You're trying to update forbidden keys in your request",
	"user.userFailedUpdate":             "Failed to update your user data.",
	"user.userAvatarUploaded":           "Your avatar was uploaded successfully.",
	"user.userAvatarErrorUpload":        "Error while uploading your avatar.",
	"user.userErrorFileUploadFormat":    "Please, upload a {{format}} avatar file.",
	"user.userErrorFileUploadSize":      "Your avatar file must be smaller than {{size}}.",
	"user.userAvatarUploadDeleted":      "Your profile picture was deleted successfully",
	"user.userAvatarUploadDeletedError": "Error while trying to delete your profile picture.",
	"user.userAvatarUploadEmpty":        "This user does not have an avatar",
	"user.welcomeEmailSubject":          "Welcome to {{product}}, {{name}}!",

	"task.taskCreationError":      "Error while trying to create your task.",
	"task.taskNotFound":           "Task not found.",
	"task.tasksFetchError":        "Error while trying to fetch your tasks.",
	"task.taskPatchForbiddenKeys": "You're trying to update forbidden keys in your request",
	"task.taskFailedUpdate":       "Failed to update your task.",
	"task.taskDeleteError":        "Error while trying to delete your task.",
	"task.taskInvalidQuery":       "Invalid task query parameters.",
}

var portuguese = map[string]string{
	"methodNotAllowed":   "Este método não é permitido.",
	"appMaintenanceMode": "Estamos em manutenção. Por favor, tente novamente mais tarde.",
	"internalError":      "Algo deu errado ao processar sua requisição.",
	"tooManyRequests":    "Muitas requisições. Por favor, aguarde.",

	"user.userLogoutError":              "Erro ao tentar sair.",
	"user.userLogoutSuccess":            "Usuário desconectado com sucesso.",
	"user.userLogoutAllSuccess":         "Usuário desconectado de todos os dispositivos com sucesso",
	"user.userLogoutAllError":           "Erro ao tentar sair de todos os dispositivos",
	"user.userNotFoundByToken":          "Nenhum usuário encontrado com o token de autenticação informado",
	"user.userNotAuthenticated":         "Usuário não autenticado. Por favor, verifique suas credenciais e tente novamente.",
	"user.userCreationError":            "Erro ao tentar criar seu usuário",
	"user.userNotFoundOnLogin":          "Erro ao tentar entrar. Usuário não encontrado.",
	"user.userWrongPassword":            "Erro ao tentar entrar. Por favor, verifique suas credenciais",
	"user.usersNotFound":                "Nenhum usuário encontrado.",
	"user.userNotFound":                 "Usuário não encontrado.",
	"user.userDeleteNotFound":           "O usuário que você está tentando remover não existe.",
	"user.userProfileGetError":          "Erro ao buscar o perfil do seu usuário.",
	"user.userDeleteError":              "Erro ao tentar remover seu usuário",
	"user.userPatchForbiddenKeys":       "Você está tentando atualizar campos não permitidos",
	"user.userFailedUpdate":             "Falha ao atualizar seus dados.",
	"user.userAvatarUploaded":           "Seu avatar foi enviado com sucesso.",
	"user.userAvatarErrorUpload":        "Erro ao enviar seu avatar.",
	"user.userErrorFileUploadFormat":    "Por favor, envie um avatar no formato {{format}}.",
	"user.userErrorFileUploadSize":      "Seu avatar deve ter menos de {{size}}.",
	"user.userAvatarUploadDeleted":      "Sua foto de perfil foi removida com sucesso",
	"user.userAvatarUploadDeletedError": "Erro ao tentar remover sua foto de perfil.",
	"user.userAvatarUploadEmpty":        "Este usuário não possui avatar",
	"user.welcomeEmailSubject":          "Bem-vindo ao {{product}}, {{name}}!",

	"task.taskCreationError":      "Erro ao tentar criar sua tarefa.",
	"task.taskNotFound":           "Tarefa não encontrada.",
	"task.tasksFetchError":        "Erro ao buscar suas tarefas.",
	"task.taskPatchForbiddenKeys": "Você está tentando atualizar campos não permitidos",
	"task.taskFailedUpdate":       "Falha ao atualizar sua tarefa.",
	"task.taskDeleteError":        "Erro ao tentar remover sua tarefa.",
	"task.taskInvalidQuery":       "Parâmetros de consulta inválidos.",
}
