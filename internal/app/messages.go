package app

const (
	MsgCheckUserFailed      = "Error al verificar usuario"
	MsgPinSent              = "Código enviado a tu correo"
	MsgPinResent            = "PIN reenviado a tu correo"
	MsgPinForgot            = "Se envió un nuevo PIN a tu correo"
	MsgRequestPinFailed     = "Error al solicitar código"
	MsgPinInvalid           = "PIN inválido"
	MsgPasswordCreated      = "¡Contraseña creada exitosamente!"
	MsgCreatePasswordFailed = "Error al crear contraseña"
	MsgWelcome              = "¡Bienvenido!"
	MsgWrongPassword        = "Contraseña incorrecta"
	MsgLoggedOut            = "Sesión cerrada"
	MsgAdminWelcome         = "¡Bienvenido Administrador!"
	MsgAdminLoggedOut       = "Sesión de administrador cerrada"
	MsgConfirmLogout        = "¿Estás seguro de que deseas cerrar sesión?"

	MsgAddedToCart        = "%s agregado al carrito"
	MsgProductUnavailable = "Producto no disponible"
	MsgCartSaveFailed     = "Error al guardar el carrito"
	MsgCartEmpty          = "Tu carrito está vacío"
	MsgOrderPlaced        = "¡Pedido confirmado! Pronto lo recibirás"
	MsgOrderFailed        = "Error al crear el pedido"
	MsgReceiptConfirmed   = "Recepción confirmada"
	MsgReceiptFailed      = "Error al confirmar recepción"

	MsgConfigSaved       = "Configuración guardada"
	MsgConfigSaveFailed  = "Error al guardar configuración"
	MsgMissingFields     = "Por favor completa todos los campos"
	MsgInvalidPrice      = "El precio debe ser un número entero"
	MsgClientCreated     = "Cliente creado exitosamente"
	MsgClientFailed      = "Error al crear cliente"
	MsgEnterpriseCreated = "Empresa creada exitosamente"
	MsgEnterpriseFailed  = "Error al crear empresa"
	MsgProductCreated    = "Producto creado exitosamente"
	MsgProductFailed     = "Error al crear producto"

	MsgLoadFailed = "Error al cargar datos"
)
