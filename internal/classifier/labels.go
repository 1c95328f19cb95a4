package classifier

// ClassLabels is the ordered output vocabulary of the dog breed model. Index i
// names the i-th entry of the model's output vector. Entries are kept exactly
// as the model was exported, including the odd ones.
var ClassLabels = []string{
	"Afghan_hound",
	"African_hunting_dog",
	"Airedale",
	"American_Staffordshire_terrier",
	"Appenzeller",
	"Australian_terrier",
	"Bedlington_terrier",
	"Bernese_mountain_dog",
	"Blenheim_spaniel",
	"Border_collie",
	"Border_terrier",
	"Boston_bull",
	"Bouvier_des_Flandres",
	"Brabancon_griffon",
	"Brittany_spaniel",
	"Cardigan",
	"Chesapeake_Bay_retriever",
	"Chihuahua",
	"Dandie_Dinmont",
	"Doberman",
	"English_foxhound",
	"English_setter",
	"English_springer",
	"EntleBucher",
	"Eskimo_dog",
	"French_bulldog",
	"German_shepherd",
	"Gordon_setter",
	"Great_Dane",
	"Great_Pyrenees",
	"Greater_Swiss_Mountain_dog",
	"Ibizan_hound",
	"Irish_setter",
	"Irish_terrier",
	"Irish_water_spaniel",
	"Irish_wolfhound",
	"Italian_greyhound",
	"Japanese_spaniel",
	"Kerry_blue_terrier",
	"Labrador_retriever",
	"Lakeland_terrier",
	"Leonberg",
	"Lhasa",
	"Maltese_dog",
	"Mexican_hairless",
	"Newfoundland",
	"Norfolk_terrier",
	"Norwegian_elkhound",
	"Norwich_terrier",
	"Old_English_sheepdog",
	"Pekinese",
	"Pembroke",
	"Pomeranian",
	"Rhodesian_ridgeback",
	"Rottweiler",
	"Saint_Bernard",
	"Saluki",
	"Samoyed",
	"Scotch_terrier",
	"Scottish_deerhound",
	"Sealyham_terrier",
	"Shetland_sheepdog",
	"Siberian_husky",
	"Staffordshire_bullterrier",
	"Sussex_spaniel",
	"Tibetan_mastiff",
	"Tibetan_terrier",
	"Tzu",
	"Walker_hound",
	"Weimaraner",
	"Welsh_springer_spaniel",
	"West_Highland_white_terrier",
	"Yorkshire_terrier",
	"affenpinscher",
	"basenji",
	"basset",
	"beagle",
	"bloodhound",
	"bluetick",
	"borzoi",
	"boxer",
	"briard",
	"bull_mastiff",
	"cairn",
	"chow",
	"clumber",
	"coated_retriever",
	"coated_wheaten_terrier",
	"cocker_spaniel",
	"collie",
	"dhole",
	"dingo",
	"giant_schnauzer",
	"golden_retriever",
	"groenendael",
	"haired_fox_terrier",
	"haired_pointer",
	"keeshond",
	"kelpie",
	"komondor",
	"kuvasz",
	"malamute",
	"malinois",
	"miniature_pinscher",
	"miniature_poodle",
	"miniature_schnauzer",
	"n02099429-curly-coated_retriever",
	"otterhound",
	"papillon",
	"pug",
	"redbone",
	"schipperke",
	"silky_terrier",
	"standard_poodle",
	"standard_schnauzer",
	"tan_coonhound",
	"toy_poodle",
	"toy_terrier",
	"vizsla",
	"whippet",
}

// IsLabel reports whether s is a member of ClassLabels.
func IsLabel(s string) bool {
	for _, label := range ClassLabels {
		if label == s {
			return true
		}
	}
	return false
}
